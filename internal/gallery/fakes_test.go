package gallery

import (
	"context"
	"errors"
	"strconv"
	"sync"

	"github.com/photocore/eventgallery/internal/gateway"
)

var errBackendDown = errors.New("backend down")

type call struct {
	Endpoint string
	Page     int
	Size     int
	Arg      string
}

// fakeGateway отдает ID вида "<prefix>-<n>" и записывает вызовы
type fakeGateway struct {
	mu      sync.Mutex
	calls   []call
	total   int
	fail    bool
	cursors map[int]string
	// hook вызывается до ответа (для проверки гонок)
	hook func(c call)
}

func newFakeGateway(total int) *fakeGateway {
	return &fakeGateway{total: total, cursors: map[int]string{}}
}

func (f *fakeGateway) record(c call) error {
	f.mu.Lock()
	f.calls = append(f.calls, c)
	fail := f.fail
	hook := f.hook
	f.mu.Unlock()

	if hook != nil {
		hook(c)
	}
	if fail {
		return errBackendDown
	}
	return nil
}

func (f *fakeGateway) Calls() []call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]call(nil), f.calls...)
}

func (f *fakeGateway) setFail(v bool) {
	f.mu.Lock()
	f.fail = v
	f.mu.Unlock()
}

func (f *fakeGateway) ids(prefix string, page, size int) []string {
	var out []string
	for i := (page-1)*size + 1; i <= page*size && i <= f.total; i++ {
		out = append(out, prefix+"-"+strconv.Itoa(i))
	}
	return out
}

func (f *fakeGateway) ListAll(ctx context.Context, uuid string, page, size int) (*gateway.AssetPage, error) {
	if err := f.record(call{Endpoint: "all", Page: page, Size: size}); err != nil {
		return nil, err
	}
	return &gateway.AssetPage{IDs: f.ids("all", page, size), Total: f.total, HasTotal: true}, nil
}

func (f *fakeGateway) ListByPerson(ctx context.Context, uuid, personID string, page, size int) (*gateway.AssetPage, error) {
	if err := f.record(call{Endpoint: "person", Page: page, Size: size, Arg: personID}); err != nil {
		return nil, err
	}
	return &gateway.AssetPage{IDs: f.ids(personID, page, size), Total: f.total, HasTotal: true}, nil
}

func (f *fakeGateway) PersonStatistics(ctx context.Context, uuid, personID string) (*gateway.PersonStats, error) {
	if err := f.record(call{Endpoint: "stats", Arg: personID}); err != nil {
		return nil, err
	}
	return &gateway.PersonStats{Assets: f.total}, nil
}

func (f *fakeGateway) SearchByKeyword(ctx context.Context, uuid, keyword string, page, count int) (*gateway.AssetPage, error) {
	if err := f.record(call{Endpoint: "keyword", Page: page, Size: count, Arg: keyword}); err != nil {
		return nil, err
	}
	ids := f.ids(keyword, page, count)
	next := ""
	if page*count < f.total {
		next = "cursor-" + strconv.Itoa(page+1)
	}
	return &gateway.AssetPage{IDs: ids, NextPage: next}, nil
}

// fakeAuth бэкенд аутентификации закрытых галерей
type fakeAuth struct {
	mu    sync.Mutex
	calls int
	ids   []string
	err   error
}

func (f *fakeAuth) ShareAuthenticate(ctx context.Context, uuid, contact, code string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.ids, nil
}

func (f *fakeAuth) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func seqIDs(n int) []string {
	ids := make([]string, n)
	for i := range ids {
		ids[i] = strconv.Itoa(i + 1)
	}
	return ids
}

func endpoints(calls []call) []string {
	out := make([]string, len(calls))
	for i, c := range calls {
		out[i] = c.Endpoint
	}
	return out
}

func assetIDs(assets []AssetMeta) []string {
	out := make([]string, len(assets))
	for i, a := range assets {
		out[i] = a.ID
	}
	return out
}
