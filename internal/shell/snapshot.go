package shell

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/dop251/goja"
	"github.com/goccy/go-yaml"
	"github.com/klauspost/compress/gzip"
	"github.com/pelletier/go-toml/v2"
	"go.uber.org/zap"
)

// Snapshot is a portable dump of the namespace's custom properties.
// Values keep their stored form, so functions travel as source text.
type Snapshot struct {
	Version    int                `json:"version" yaml:"version" toml:"version"`
	ExportedAt string             `json:"exported_at" yaml:"exported_at" toml:"exported_at"`
	Properties []SnapshotProperty `json:"properties" yaml:"properties" toml:"properties"`
}

// SnapshotProperty is one exported namespace entry.
type SnapshotProperty struct {
	Key   string `json:"key" yaml:"key" toml:"key"`
	Type  string `json:"type" yaml:"type" toml:"type"`
	Value string `json:"value" yaml:"value" toml:"value"`
}

const snapshotVersion = 1

// Export writes every custom property to path. The format follows the
// extension: .json, .yaml/.yml, or .toml, with an optional .gz suffix.
func (s *Session) Export(path string) (int, error) {
	rows, err := s.DB.ListProperties()
	if err != nil {
		return 0, err
	}

	snap := Snapshot{
		Version:    snapshotVersion,
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Properties: make([]SnapshotProperty, 0, len(rows)),
	}
	for _, row := range rows {
		snap.Properties = append(snap.Properties, SnapshotProperty{
			Key: row.Key, Type: row.Type, Value: row.Value,
		})
	}

	data, err := marshalSnapshot(snap, path)
	if err != nil {
		return 0, err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return 0, fmt.Errorf("failed to write snapshot: %w", err)
	}
	s.log.Info("namespace exported",
		zap.Int("properties", len(snap.Properties)),
		zap.String("path", path))
	return len(snap.Properties), nil
}

// Import loads a snapshot and replays every entry through the
// namespace port, so reserved keys are rejected and each accepted
// entry is persisted before it becomes visible. Returns accepted and
// skipped counts.
func (s *Session) Import(path string) (accepted, skipped int, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to read snapshot: %w", err)
	}

	var snap Snapshot
	if err := unmarshalSnapshot(data, path, &snap); err != nil {
		return 0, 0, err
	}
	if snap.Version != snapshotVersion {
		return 0, 0, fmt.Errorf("unsupported snapshot version %d", snap.Version)
	}

	s.Engine.Do(func(rt *goja.Runtime) {
		ser := s.Port.Serializer()
		for _, prop := range snap.Properties {
			val, derr := ser.Deserialize(prop.Value, prop.Type)
			if derr != nil {
				s.log.Warn("skipping snapshot entry", zap.String("key", prop.Key), zap.Error(derr))
				skipped++
				continue
			}
			ok, serr := s.Port.Set(prop.Key, val)
			if serr != nil || !ok {
				if serr != nil {
					s.log.Warn("skipping snapshot entry", zap.String("key", prop.Key), zap.Error(serr))
				}
				skipped++
				continue
			}
			accepted++
		}
	})
	s.log.Info("namespace imported", zap.Int("accepted", accepted), zap.Int("skipped", skipped))
	return accepted, skipped, nil
}

func marshalSnapshot(snap Snapshot, path string) ([]byte, error) {
	format, compressed := snapshotFormat(path)

	var data []byte
	var err error
	switch format {
	case "json":
		data, err = sonic.MarshalIndent(snap, "", "  ")
	case "yaml":
		data, err = yaml.Marshal(snap)
	case "toml":
		data, err = toml.Marshal(snap)
	default:
		return nil, fmt.Errorf("unsupported snapshot format %q", format)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}

	if compressed {
		var buf bytes.Buffer
		gz := gzip.NewWriter(&buf)
		if _, err := gz.Write(data); err != nil {
			return nil, err
		}
		if err := gz.Close(); err != nil {
			return nil, err
		}
		data = buf.Bytes()
	}
	return data, nil
}

func unmarshalSnapshot(data []byte, path string, snap *Snapshot) error {
	format, compressed := snapshotFormat(path)

	if compressed {
		gz, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return fmt.Errorf("failed to decompress snapshot: %w", err)
		}
		defer gz.Close()
		data, err = io.ReadAll(gz)
		if err != nil {
			return fmt.Errorf("failed to decompress snapshot: %w", err)
		}
	}

	var err error
	switch format {
	case "json":
		err = sonic.Unmarshal(data, snap)
	case "yaml":
		err = yaml.Unmarshal(data, snap)
	case "toml":
		err = toml.Unmarshal(data, snap)
	default:
		return fmt.Errorf("unsupported snapshot format %q", format)
	}
	if err != nil {
		return fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return nil
}

func snapshotFormat(path string) (format string, compressed bool) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".gz" {
		compressed = true
		path = strings.TrimSuffix(path, filepath.Ext(path))
		ext = strings.ToLower(filepath.Ext(path))
	}
	format = strings.TrimPrefix(ext, ".")
	if format == "yml" {
		format = "yaml"
	}
	return format, compressed
}
