// Package profile is the persistent player-profile cache and outbound
// fetch facade (C10), grounded on
// original_source/src-tauri/src/cache.rs (Cache/Profile, get_cached_or_fetch)
// and original_source/src/outbound.rs (fetch_username/fetch_user_face),
// with the on-disk JSON cache shaped after the teacher's
// internal/world/cache.go FileCache (load-on-construct, write-back on
// every mutation, mutex-guarded map).
package profile

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"advancetrack/internal/model"
	"advancetrack/internal/obslog"
)

const profilesFileName = "profiles.json"

// Entry is one cached player's display name and base64-encoded face PNG,
// mirroring cache.rs's Profile struct field-for-field.
type Entry struct {
	Name string `json:"name"`
	Face string `json:"face"`
}

// Cache is the uuid -> Entry map, persisted as a single JSON file under
// cacheDir, written back after every successful fetch.
type Cache struct {
	mu      sync.Mutex
	path    string
	entries map[string]Entry
	client  *http.Client
}

// New loads an existing cache file under cacheDir, or starts empty if
// none exists yet.
func New(cacheDir string, requestTimeout, connectTimeout time.Duration) *Cache {
	c := &Cache{
		path:    filepath.Join(cacheDir, profilesFileName),
		entries: map[string]Entry{},
		client: &http.Client{
			Timeout: requestTimeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{Timeout: connectTimeout}).DialContext,
			},
		},
	}
	c.load()
	return c
}

func (c *Cache) load() {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if !os.IsNotExist(err) {
			obslog.Get(obslog.CategoryProfile).Warn("failed to read profile cache %s: %v", c.path, err)
		}
		return
	}
	var entries map[string]Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		obslog.Get(obslog.CategoryProfile).Warn("corrupt profile cache %s, starting fresh: %v", c.path, err)
		return
	}
	c.entries = entries
}

// Get returns a cached entry by uuid, if present.
func (c *Cache) Get(uuid string) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[uuid]
	return e, ok
}

func (c *Cache) put(uuid string, entry Entry) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[uuid] = entry

	if err := os.MkdirAll(filepath.Dir(c.path), 0755); err != nil {
		return model.Wrap(model.KindIO, "create profile cache dir", err)
	}
	data, err := json.MarshalIndent(c.entries, "", "  ")
	if err != nil {
		return model.Wrap(model.KindInvariant, "marshal profile cache", err)
	}
	if err := os.WriteFile(c.path, data, 0644); err != nil {
		return model.Wrap(model.KindIO, "write profile cache", err)
	}
	return nil
}

// GetOrFetch returns (name, data-URL avatar) for uuid, from cache if
// present, otherwise fetching name and face in parallel and caching the
// result on success. A fetch failure returns ok=false rather than an
// error, matching the original's "log and return nothing" behavior so a
// single player's network hiccup never fails the whole load.
func (c *Cache) GetOrFetch(ctx context.Context, uuid string) (name, avatarURL string, ok bool) {
	if cached, hit := c.Get(uuid); hit {
		return cached.Name, dataURL(cached.Face), true
	}

	eg, egCtx := errgroup.WithContext(ctx)
	var fetchedName string
	var faceBytes []byte

	eg.Go(func() error {
		n, err := fetchUsername(egCtx, c.client, uuid)
		if err != nil {
			return err
		}
		fetchedName = n
		return nil
	})
	eg.Go(func() error {
		b, err := fetchUserFace(egCtx, c.client, uuid)
		if err != nil {
			return err
		}
		faceBytes = b
		return nil
	})

	if err := eg.Wait(); err != nil {
		obslog.Get(obslog.CategoryProfile).Warn("failed to fetch player info for %s: %v", uuid, err)
		return "", "", false
	}

	face := base64.StdEncoding.EncodeToString(faceBytes)
	if err := c.put(uuid, Entry{Name: fetchedName, Face: face}); err != nil {
		obslog.Get(obslog.CategoryProfile).Warn("failed to cache player %s: %v", uuid, err)
	}
	return fetchedName, dataURL(face), true
}

func dataURL(base64Face string) string {
	return fmt.Sprintf("data:image/png;base64,%s", base64Face)
}

func usernameAPIURL(uuid string) string {
	return fmt.Sprintf("https://api.minecraftservices.com/minecraft/profile/lookup/%s", uuid)
}

func faceAPIURL(uuid string) string {
	return fmt.Sprintf("https://mc-heads.net/avatar/%s/8", uuid)
}

func fetchUsername(ctx context.Context, client *http.Client, uuid string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, usernameAPIURL(uuid), nil)
	if err != nil {
		return "", model.Wrap(model.KindUpstream, "build username request", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", model.Wrap(model.KindUpstream, "send request to mojang", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", model.Wrap(model.KindUpstream, fmt.Sprintf("username API returned status %d", resp.StatusCode), nil)
	}

	var body struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", model.Wrap(model.KindUpstream, "parse username JSON", err)
	}
	return body.Name, nil
}

func fetchUserFace(ctx context.Context, client *http.Client, uuid string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, faceAPIURL(uuid), nil)
	if err != nil {
		return nil, model.Wrap(model.KindUpstream, "build face request", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, model.Wrap(model.KindUpstream, "send request to face API", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, model.Wrap(model.KindUpstream, fmt.Sprintf("face API returned status %d", resp.StatusCode), nil)
	}

	avatarBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, model.Wrap(model.KindUpstream, "read avatar image bytes", err)
	}
	return avatarBytes, nil
}
