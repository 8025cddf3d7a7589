package realtime

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	mu       sync.Mutex
	messages [][]byte
	fail     bool
}

func (f *fakeClient) Send(message []byte) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return false
	}
	f.messages = append(f.messages, message)
	return true
}

func (f *fakeClient) Close() {}

func TestHub_PublishOnlyToProjectSubscribers(t *testing.T) {
	hub := NewHub()
	a := &fakeClient{}
	b := &fakeClient{}
	broken := &fakeClient{fail: true}
	hub.Register(1, a)
	hub.Register(1, broken)
	hub.Register(2, b)

	hub.Publish(1, CategoryRemoved, 7)

	require.Len(t, a.messages, 1)
	require.Empty(t, b.messages)

	var evt Event
	require.NoError(t, json.Unmarshal(a.messages[0], &evt))
	require.Equal(t, Event{Type: CategoryRemoved, ProjectID: 1, ID: 7, Version: 1}, evt)
}

func TestHub_Unregister(t *testing.T) {
	hub := NewHub()
	a := &fakeClient{}
	hub.Register(3, a)
	require.Equal(t, 1, hub.Subscribers(3))

	hub.Unregister(3, a)
	hub.Unregister(3, a)
	require.Equal(t, 0, hub.Subscribers(3))

	hub.Publish(3, ColumnMoved, 1)
	require.Empty(t, a.messages)
}

func TestGetHub_Singleton(t *testing.T) {
	require.Same(t, GetHub(), GetHub())
}
