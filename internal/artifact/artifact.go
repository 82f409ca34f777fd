package artifact

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Kind classifies an artifact's content for detector routing.
type Kind string

const (
	KindCode     Kind = "code"
	KindConfig   Kind = "config"
	KindDocument Kind = "document"
	KindOther    Kind = "other"
)

// Artifact is one loaded input file, normalized and immutable. Path is
// relative to the scan root (or a virtual path for nested content).
type Artifact struct {
	Path string
	Kind Kind
	Data []byte
}

// LoadError reports a single artifact that could not be loaded or decoded.
// It is scoped to that artifact and never aborts a run.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("artifact %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Load reads the file at root/rel and returns a normalized Artifact.
func Load(root, rel string) (Artifact, error) {
	b, err := os.ReadFile(filepath.Join(root, rel))
	if err != nil {
		return Artifact{}, &LoadError{Path: rel, Err: err}
	}
	return FromBytes(rel, b)
}

// FromBytes builds an Artifact from already-read content (git blobs,
// container layers, staged diffs). Binary or non-UTF-8 content is rejected
// with a LoadError.
func FromBytes(path string, data []byte) (Artifact, error) {
	if looksBinary(data) {
		return Artifact{}, &LoadError{Path: path, Err: errBinary}
	}
	if !utf8.Valid(data) {
		return Artifact{}, &LoadError{Path: path, Err: errEncoding}
	}
	return Artifact{Path: path, Kind: DetectKind(path, data), Data: data}, nil
}

var (
	errBinary   = fmt.Errorf("binary content")
	errEncoding = fmt.Errorf("invalid utf-8 encoding")
)

func looksBinary(b []byte) bool {
	const sniff = 800
	n := sniff
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if b[i] == 0 {
			return true
		}
	}
	return false
}

var codeExts = map[string]bool{
	".go": true, ".py": true, ".js": true, ".ts": true, ".jsx": true, ".tsx": true,
	".java": true, ".rb": true, ".php": true, ".cs": true, ".c": true, ".h": true,
	".cpp": true, ".rs": true, ".kt": true, ".swift": true, ".sh": true, ".sql": true,
}

var configExts = map[string]bool{
	".yml": true, ".yaml": true, ".json": true, ".toml": true, ".ini": true,
	".conf": true, ".cfg": true, ".properties": true, ".tf": true, ".tfvars": true,
	".env": true, ".envrc": true, ".xml": true,
}

var documentExts = map[string]bool{
	".md": true, ".txt": true, ".rst": true, ".adoc": true, ".html": true, ".htm": true,
}

var configBasenames = map[string]bool{
	"dockerfile": true, "makefile": true, ".env": true, ".gitconfig": true,
	".npmrc": true, ".dockerignore": true,
}

// DetectKind classifies content by extension first, falling back to a small
// content sniff for extensionless files.
func DetectKind(path string, data []byte) Kind {
	base := strings.ToLower(filepath.Base(path))
	if configBasenames[base] || strings.HasPrefix(base, ".env.") {
		return KindConfig
	}
	ext := strings.ToLower(filepath.Ext(path))
	switch {
	case codeExts[ext]:
		return KindCode
	case configExts[ext]:
		return KindConfig
	case documentExts[ext]:
		return KindDocument
	}
	// extensionless: shebang means code, key: value pairs lean config
	head := data
	if len(head) > 256 {
		head = head[:256]
	}
	if len(head) >= 2 && head[0] == '#' && head[1] == '!' {
		return KindCode
	}
	if looksConfig(head) {
		return KindConfig
	}
	return KindOther
}

var reKVLine = regexp.MustCompile(`^[A-Za-z0-9_.\-]+\s*[:=]\s*\S`)

// looksConfig reports whether most of the leading non-comment lines are
// key: value or key = value pairs.
func looksConfig(head []byte) bool {
	total, kv := 0, 0
	for _, l := range strings.Split(string(head), "\n") {
		l = strings.TrimSpace(l)
		if l == "" || strings.HasPrefix(l, "#") || strings.HasPrefix(l, ";") {
			continue
		}
		total++
		if reKVLine.MatchString(l) {
			kv++
		}
		if total == 8 {
			break
		}
	}
	return total > 0 && kv*2 > total
}
