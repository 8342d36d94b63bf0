package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/srinivastejavt/podcast-clipper/internal/types"
)

// LoadTranscript reads one transcript document from disk.
func LoadTranscript(path string) (types.Transcript, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.Transcript{}, fmt.Errorf("read transcript: %w", err)
	}
	var tr types.Transcript
	if err := json.Unmarshal(data, &tr); err != nil {
		return types.Transcript{}, fmt.Errorf("decode transcript %s: %w", filepath.Base(path), err)
	}
	if tr.VideoID == "" {
		return types.Transcript{}, &types.MalformedTranscriptError{Reason: fmt.Sprintf("%s has no video_id", filepath.Base(path))}
	}
	return tr, nil
}

// CollectTranscripts resolves a mix of file and directory arguments
// into transcript paths, sorted for a stable processing order.
func CollectTranscripts(args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", arg, err)
		}
		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}
		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, fmt.Errorf("read dir %s: %w", arg, err)
		}
		for _, e := range entries {
			if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
				continue
			}
			paths = append(paths, filepath.Join(arg, e.Name()))
		}
	}
	sort.Strings(paths)
	return paths, nil
}
