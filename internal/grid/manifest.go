package grid

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"golang.org/x/crypto/sha3"
)

// ManifestFile is the name of the manifest inside a published directory.
const ManifestFile = "manifest.json"

// ManifestEntry records one published file.
type ManifestEntry struct {
	Path    string `json:"path"`
	Size    int64  `json:"size"`
	SHA3256 string `json:"sha3_256"`
}

// Manifest lists every file of a published grid with its digest.
type Manifest struct {
	BuildID     string          `json:"build_id,omitempty"`
	GeneratedAt time.Time       `json:"generated_at"`
	Panels      int             `json:"panels"`
	Files       []ManifestEntry `json:"files"`
}

// Digest returns the hex SHA3-256 digest of data.
func Digest(data []byte) string {
	sum := sha3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// add records a file written under the publish root.
func (m *Manifest) add(rel string, data []byte) {
	m.Files = append(m.Files, ManifestEntry{
		Path:    filepath.ToSlash(rel),
		Size:    int64(len(data)),
		SHA3256: Digest(data),
	})
}

// write stores the manifest in dir with entries sorted by path.
func (m *Manifest) write(dir string) error {
	sort.Slice(m.Files, func(i, j int) bool { return m.Files[i].Path < m.Files[j].Path })

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, ManifestFile), append(data, '\n'), 0644); err != nil { //nolint:gosec // served by a web server
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}

// ReadManifest reads the manifest of the grid published in dir.
func ReadManifest(dir string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(dir, ManifestFile)) //nolint:gosec // dir is caller supplied
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	return &m, nil
}

// Verify recomputes the digest of every file listed in the manifest of dir
// and returns the paths whose content no longer matches.
func Verify(dir string) ([]string, error) {
	m, err := ReadManifest(dir)
	if err != nil {
		return nil, err
	}

	mismatched := make([]string, 0)
	for _, entry := range m.Files {
		content, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(entry.Path))) //nolint:gosec // listed in manifest
		if err != nil || Digest(content) != entry.SHA3256 {
			mismatched = append(mismatched, entry.Path)
		}
	}
	return mismatched, nil
}
