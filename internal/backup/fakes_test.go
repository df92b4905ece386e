package backup

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/dmitrijs2005/mindstitch/internal/models"
	"github.com/dmitrijs2005/mindstitch/internal/remote"
)

type memStore struct {
	mu         sync.Mutex
	files      map[string][]byte
	calls      []string
	downloads  map[string]int
	failUpload map[string]bool
}

func newMemStore() *memStore {
	return &memStore{files: map[string][]byte{}, downloads: map[string]int{}, failUpload: map[string]bool{}}
}

func (m *memStore) record(c string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, c)
}

func (m *memStore) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

func (m *memStore) CheckConnection(_ context.Context, _ remote.Endpoint) bool {
	m.record("check")
	return true
}

func (m *memStore) CreateFolder(_ context.Context, _ remote.Endpoint, name string) bool {
	m.record("mkcol " + name)
	return true
}

func (m *memStore) Upload(_ context.Context, _ remote.Endpoint, path string, data []byte, _ string) error {
	m.record("put " + path)
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failUpload[path] {
		return errors.New("507 insufficient storage")
	}
	m.files[path] = append([]byte(nil), data...)
	return nil
}

func (m *memStore) Download(_ context.Context, _ remote.Endpoint, path string) ([]byte, bool) {
	m.record("get " + path)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.downloads[path]++
	b, ok := m.files[path]
	return b, ok
}

func (m *memStore) puts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for _, c := range m.calls {
		if strings.HasPrefix(c, "put ") {
			out = append(out, strings.TrimPrefix(c, "put "))
		}
	}
	return out
}

type memJournal struct {
	ideas     []models.Idea
	todos     []models.Todo
	importErr error
	imported  int
}

func (j *memJournal) Snapshot(context.Context) ([]models.Idea, []models.Todo, error) {
	is := append([]models.Idea(nil), j.ideas...)
	ts := append([]models.Todo(nil), j.todos...)
	return is, ts, nil
}

func (j *memJournal) ImportAll(_ context.Context, is []models.Idea, ts []models.Todo) error {
	if j.importErr != nil {
		return j.importErr
	}
	j.imported++
	next := int64(len(j.ideas)) + 1
	for _, i := range is {
		i.ID = next
		next++
		j.ideas = append(j.ideas, i)
	}
	j.todos = append(j.todos, ts...)
	return nil
}
