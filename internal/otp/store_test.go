package otp

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/agrochain-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(codes ...string) *MemoryStore {
	s := NewMemoryStore()
	if len(codes) > 0 {
		i := 0
		s.generate = func() (string, error) {
			c := codes[i%len(codes)]
			i++
			return c, nil
		}
	}
	return s
}

func TestIssueThenConsume_ReturnsSameCode(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()

	issued, err := s.Issue(ctx, "a@b.com")
	require.NoError(t, err)

	consumed, err := s.Consume(ctx, "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, issued.Code, consumed.Code)
}

func TestConsume_IsSingleUse(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()

	_, err := s.Issue(ctx, "a@b.com")
	require.NoError(t, err)

	_, err = s.Consume(ctx, "a@b.com")
	require.NoError(t, err)

	_, err = s.Consume(ctx, "a@b.com")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	_, err = s.Peek(ctx, "a@b.com")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

// Last-issued-wins: a second issuance permanently invalidates the first code,
// even if the first was delivered and the second was not. Known behavior.
func TestIssueTwice_FirstCodeInvalidated(t *testing.T) {
	ctx := context.Background()
	s := newTestStore("111111", "222222")

	first, err := s.Issue(ctx, "a@b.com")
	require.NoError(t, err)
	second, err := s.Issue(ctx, "a@b.com")
	require.NoError(t, err)
	require.NotEqual(t, first.Code, second.Code)

	pc, err := s.Peek(ctx, "a@b.com")
	require.NoError(t, err)
	assert.NotEqual(t, first.Code, pc.Code)
	assert.Equal(t, second.Code, pc.Code)
}

func TestPeek_DoesNotMutate(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()

	_, err := s.Issue(ctx, "a@b.com")
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err = s.Peek(ctx, "a@b.com")
		require.NoError(t, err)
	}
}

func TestExpired_Boundaries(t *testing.T) {
	s := newTestStore()
	base := time.Now()
	s.now = func() time.Time { return base }

	pc, err := s.Issue(context.Background(), "a@b.com")
	require.NoError(t, err)

	assert.False(t, pc.Expired(base))
	assert.False(t, pc.Expired(base.Add(TTL)))
	assert.True(t, pc.Expired(base.Add(TTL+time.Second)))
}

func TestDelete_AbsentKeyIsNoop(t *testing.T) {
	s := newTestStore()
	assert.NoError(t, s.Delete(context.Background(), "nobody@x.com"))
}

func TestKeys_AreIndependent(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()

	a, err := s.Issue(ctx, "a@b.com")
	require.NoError(t, err)
	_, err = s.Issue(ctx, "c@d.com")
	require.NoError(t, err)

	_, err = s.Consume(ctx, "c@d.com")
	require.NoError(t, err)

	pc, err := s.Peek(ctx, "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, a.Code, pc.Code)
}

func TestConcurrentIssueAndConsume_NoRaces(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Issue(ctx, "a@b.com")
			require.NoError(t, err)
			_, _ = s.Consume(ctx, "a@b.com")
		}()
	}
	wg.Wait()
}
