package shader

import (
	"errors"
	"fmt"
	"io/fs"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
)

// Source names one shader file to load.
type Source struct {
	Key  string
	Type ShaderType
	Path string
}

// LoadAll reads, pre-processes and reflects every source concurrently on a worker pool.
// The call returns only after every source has been attempted. Any failure fails the whole load
// so a program never starts with a partial pipeline set.
//
// Parameters:
//   - fsys: the file system holding the shader files
//   - sources: the shaders to load; keys must be unique
//   - workers: the maximum number of concurrent loads, clamped to at least 1
//
// Returns:
//   - map[string]Shader: the loaded shaders keyed by Source.Key
//   - error: every load failure joined together, or nil
func LoadAll(fsys fs.FS, sources []Source, workers int) (map[string]Shader, error) {
	seen := make(map[string]bool, len(sources))
	for _, src := range sources {
		if seen[src.Key] {
			return nil, fmt.Errorf("shader: duplicate key %q", src.Key)
		}
		seen[src.Key] = true
	}

	pool := worker.NewDynamicWorkerPool(max(workers, 1), len(sources)+1, time.Second)
	defer pool.Stop()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		errs    []error
		shaders = make(map[string]Shader, len(sources))
	)
	for i, src := range sources {
		wg.Add(1)
		pool.SubmitTask(worker.Task{
			ID:      i,
			Payload: src,
			Do: func() (any, error) {
				defer wg.Done()
				s, err := LoadShader(fsys, src.Key, src.Type, src.Path)
				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					errs = append(errs, err)
					return nil, err
				}
				shaders[src.Key] = s
				return s, nil
			},
		})
	}
	wg.Wait()

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return shaders, nil
}
