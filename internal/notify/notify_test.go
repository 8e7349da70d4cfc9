package notify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(subj string, data []byte) error {
	args := m.Called(subj, data)
	return args.Error(0)
}

func TestRecorder_KeepsMostRecent(t *testing.T) {
	r := NewRecorder(2)
	ctx := context.Background()

	if _, ok := r.Last(); ok {
		t.Error("Last() on empty recorder reported a toast")
	}

	r.Notify(ctx, Toast{Title: "a"})
	r.Notify(ctx, Toast{Title: "b"})
	r.Notify(ctx, Toast{Title: "c"})

	got := r.Toasts()
	if len(got) != 2 || got[0].Title != "b" || got[1].Title != "c" {
		t.Errorf("Toasts() = %+v, want [b c]", got)
	}

	last, ok := r.Last()
	if !ok || last.Title != "c" {
		t.Errorf("Last() = %+v, %v", last, ok)
	}
}

func TestMulti_FansOut(t *testing.T) {
	a, b := NewRecorder(0), NewRecorder(0)
	m := Multi{a, nil, b, Nop{}}

	m.Notify(context.Background(), Toast{Title: "Duration mismatch", Severity: SeverityDestructive})

	if len(a.Toasts()) != 1 || len(b.Toasts()) != 1 {
		t.Errorf("fan out = %d, %d; want 1, 1", len(a.Toasts()), len(b.Toasts()))
	}
}

func TestNATSNotifier_PublishesToast(t *testing.T) {
	pub := new(mockPublisher)
	pub.On("Publish", ToastSubject, mock.MatchedBy(func(data []byte) bool {
		var got Toast
		if err := json.Unmarshal(data, &got); err != nil {
			return false
		}
		return got.Title == "File too large" && got.Severity == SeverityDestructive
	})).Return(nil).Once()

	n := NewNATSNotifier(pub, nil)
	n.Notify(context.Background(), Toast{Title: "File too large", Description: "max 100 MiB", Severity: SeverityDestructive})

	pub.AssertExpectations(t)
}

func TestNATSNotifier_UploadEventSubject(t *testing.T) {
	pub := new(mockPublisher)
	pub.On("Publish", "fastchannel.uploads.promoted", []byte(`{"id":7}`)).Return(nil).Once()

	n := NewNATSNotifier(pub, nil)
	n.PublishUploadEvent("promoted", map[string]int64{"id": 7})

	pub.AssertExpectations(t)
}

func TestNATSNotifier_SwallowsErrors(t *testing.T) {
	pub := new(mockPublisher)
	pub.On("Publish", mock.Anything, mock.Anything).Return(errors.New("nats: connection closed"))

	n := NewNATSNotifier(pub, nil)
	assert.NotPanics(t, func() {
		n.Notify(context.Background(), Toast{Title: "x"})
		n.PublishUploadEvent("completed", nil)
	})
	pub.AssertNumberOfCalls(t, "Publish", 2)
}

func TestNATSNotifier_PublishJSONReportsEncodeErrors(t *testing.T) {
	pub := new(mockPublisher)
	n := NewNATSNotifier(pub, nil)

	err := n.PublishJSON(ToastSubject, map[string]any{"bad": make(chan int)})
	assert.Error(t, err)
	pub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}
