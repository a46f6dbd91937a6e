package disk

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Client stores artifact bytes on local disk under a single root directory.
// Keys are opaque `<uuid>_<sanitized-name>` strings; the project row owns the
// key and is the only way back to the bytes.
type Client struct {
	root string
}

// Pinger exposes the health-check surface.
type Pinger interface {
	Ping(ctx context.Context) error
}

// New creates the root directory if needed and returns a disk client.
func New(root string) (*Client, error) {
	if strings.TrimSpace(root) == "" {
		return nil, errors.New("upload root is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create upload root %q: %w", root, err)
	}
	return &Client{root: root}, nil
}

// Store copies the reader to a new artifact and returns its key.
func (c *Client) Store(ctx context.Context, r io.Reader, suggestedName string) (string, error) {
	if r == nil {
		return "", errors.New("artifact reader is required")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	key := uuid.NewString() + "_" + sanitizeName(suggestedName)
	path := filepath.Join(c.root, key)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create artifact %q: %w", key, err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		_ = os.Remove(path)
		return "", fmt.Errorf("write artifact %q: %w", key, err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		_ = os.Remove(path)
		return "", fmt.Errorf("sync artifact %q: %w", key, err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("close artifact %q: %w", key, err)
	}
	return key, nil
}

// Delete removes the artifact if it exists. Missing keys are not an error so
// the reaper and explicit deactivation can both re-run safely.
func (c *Client) Delete(ctx context.Context, key string) error {
	path, err := c.resolve(key)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete artifact %q: %w", key, err)
	}
	return nil
}

// Exists reports whether the artifact bytes are present.
func (c *Client) Exists(ctx context.Context, key string) (bool, error) {
	path, err := c.resolve(key)
	if err != nil {
		return false, err
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("stat artifact %q: %w", key, err)
	}
	return true, nil
}

// Open returns a reader over the artifact bytes for playback streaming.
func (c *Client) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	path, err := c.resolve(key)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open artifact %q: %w", key, err)
	}
	return f, nil
}

// Ping verifies the upload root is still reachable and writable metadata-wise.
func (c *Client) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	info, err := os.Stat(c.root)
	if err != nil {
		return fmt.Errorf("stat upload root: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("upload root %q is not a directory", c.root)
	}
	return nil
}

func (c *Client) resolve(key string) (string, error) {
	if strings.TrimSpace(key) == "" {
		return "", errors.New("artifact key is required")
	}
	if key != filepath.Base(key) {
		return "", fmt.Errorf("artifact key %q contains path separators", key)
	}
	return filepath.Join(c.root, key), nil
}

func sanitizeName(name string) string {
	base := filepath.Base(strings.TrimSpace(name))
	if base == "." || base == string(filepath.Separator) || base == "" {
		return "artifact"
	}
	var b strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}
