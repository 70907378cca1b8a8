// cmd/worker-manager/main_test.go
package main

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"college-advisor/internal/common/logger"
)

type fakeConn struct {
	id     int
	closed int
}

func (c *fakeConn) Close() error {
	c.closed++
	return nil
}

func TestConnectWithRetry_ClosesFailedClients(t *testing.T) {
	var opened []*fakeConn
	open := func() (*fakeConn, error) {
		c := &fakeConn{id: len(opened)}
		opened = append(opened, c)
		return c, nil
	}
	ping := func(c *fakeConn) error {
		if c.id < 2 {
			return errors.New("connection refused")
		}
		return nil
	}

	conn, err := connectWithRetry(open, ping, 5, time.Millisecond, logger.NewTestLogger(t), "test dependency")
	require.NoError(t, err)

	require.Len(t, opened, 3)
	assert.Same(t, opened[2], conn)
	assert.Equal(t, 1, opened[0].closed)
	assert.Equal(t, 1, opened[1].closed)
	assert.Equal(t, 0, conn.closed)
}

func TestConnectWithRetry_GivesUp(t *testing.T) {
	var opened []*fakeConn
	open := func() (*fakeConn, error) {
		c := &fakeConn{}
		opened = append(opened, c)
		return c, nil
	}
	ping := func(*fakeConn) error { return errors.New("connection refused") }

	_, err := connectWithRetry(open, ping, 3, time.Millisecond, logger.NewTestLogger(t), "test dependency")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "after 3 attempts")

	require.Len(t, opened, 3)
	for _, c := range opened {
		assert.Equal(t, 1, c.closed)
	}
}

func TestConnectWithRetry_OpenError(t *testing.T) {
	calls := 0
	open := func() (*fakeConn, error) {
		calls++
		return nil, errors.New("bad dsn")
	}
	ping := func(*fakeConn) error {
		t.Fatal("ping called without a client")
		return nil
	}

	_, err := connectWithRetry(open, ping, 2, time.Millisecond, logger.NewTestLogger(t), "test dependency")
	assert.Error(t, err)
	assert.Equal(t, 2, calls)
}
