// Package testing provides test helpers for code built on coercez.
//
// It includes a mock stage that records its calls and assertion helpers for
// coercers and guards.
//
// Example usage:
//
//	func TestSignup(t *testing.T) {
//		mock := testing.NewMockStage[string, string](t, "lookup").WithReturn("ok", nil)
//
//		c := coercez.To[string](coercez.String, mock.Coercer())
//		testing.AssertCoerces(t, c, "input", "ok")
//		testing.AssertCalledWith(t, mock, "input")
//	}
package testing

import (
	"errors"
	"reflect"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/zoobzio/coercez"
)

// MockStage is a configurable coercer that tracks its calls. Use Coercer to
// place it in a chain.
type MockStage[I, O any] struct { //nolint:govet // fieldalignment: test helper
	t           *testing.T
	name        coercez.Name
	callCount   int64
	lastInput   I
	returnVal   O
	returnErr   error
	passThrough bool
	panicMsg    string
	mu          sync.RWMutex
	callHistory []MockCall[I]
	maxHistory  int
}

// MockCall records a single call to a MockStage.
type MockCall[I any] struct {
	Input     I
	Timestamp time.Time
}

// NewMockStage creates a mock stage. Until configured it returns the zero
// value of O.
func NewMockStage[I, O any](t *testing.T, name coercez.Name) *MockStage[I, O] {
	return &MockStage[I, O]{
		t:          t,
		name:       name,
		maxHistory: 100,
	}
}

// WithReturn makes every call return val and err.
func (m *MockStage[I, O]) WithReturn(val O, err error) *MockStage[I, O] {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.returnVal = val
	m.returnErr = err
	m.passThrough = false
	return m
}

// WithPassThrough makes every call return its input. It fails the test when
// I is not assignable to O.
func (m *MockStage[I, O]) WithPassThrough() *MockStage[I, O] {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !reflect.TypeFor[I]().AssignableTo(reflect.TypeFor[O]()) {
		m.t.Fatalf("mock %s: %v does not pass through as %v", m.name, reflect.TypeFor[I](), reflect.TypeFor[O]())
	}
	m.passThrough = true
	return m
}

// WithPanic makes every call panic with msg.
func (m *MockStage[I, O]) WithPanic(msg string) *MockStage[I, O] {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.panicMsg = msg
	return m
}

// WithHistorySize sets how many calls are kept. Zero disables history.
func (m *MockStage[I, O]) WithHistorySize(size int) *MockStage[I, O] {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.maxHistory = size
	if size == 0 {
		m.callHistory = nil
	} else if len(m.callHistory) > size {
		m.callHistory = m.callHistory[len(m.callHistory)-size:]
	}
	return m
}

// Name returns the mock's name.
func (m *MockStage[I, O]) Name() coercez.Name {
	return m.name
}

// Coercer returns the mock as a coercer.
func (m *MockStage[I, O]) Coercer() coercez.Coercer[I, O] {
	return coercez.Apply(m.name, m.coerce)
}

func (m *MockStage[I, O]) coerce(value I) (O, error) {
	atomic.AddInt64(&m.callCount, 1)

	m.mu.Lock()
	m.lastInput = value
	if m.maxHistory > 0 {
		m.callHistory = append(m.callHistory, MockCall[I]{Input: value, Timestamp: time.Now()})
		if len(m.callHistory) > m.maxHistory {
			m.callHistory = m.callHistory[1:]
		}
	}
	panicMsg, passThrough := m.panicMsg, m.passThrough
	returnVal, returnErr := m.returnVal, m.returnErr
	m.mu.Unlock()

	if panicMsg != "" {
		panic(panicMsg)
	}
	if passThrough {
		out, _ := any(value).(O)
		return out, nil
	}
	return returnVal, returnErr
}

// CallCount returns the number of calls.
func (m *MockStage[I, O]) CallCount() int {
	return int(atomic.LoadInt64(&m.callCount))
}

// LastInput returns the input of the latest call.
func (m *MockStage[I, O]) LastInput() I {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastInput
}

// CallHistory returns a copy of the recorded calls, oldest first.
func (m *MockStage[I, O]) CallHistory() []MockCall[I] {
	m.mu.RLock()
	defer m.mu.RUnlock()
	history := make([]MockCall[I], len(m.callHistory))
	copy(history, m.callHistory)
	return history
}

// Reset clears calls and history but keeps the configured behavior.
func (m *MockStage[I, O]) Reset() {
	atomic.StoreInt64(&m.callCount, 0)
	m.mu.Lock()
	defer m.mu.Unlock()
	var zero I
	m.lastInput = zero
	m.callHistory = nil
}

// AssertCalled fails the test unless the mock was called exactly
// expectedCalls times.
func AssertCalled[I, O any](t *testing.T, mock *MockStage[I, O], expectedCalls int) {
	t.Helper()
	if actual := mock.CallCount(); actual != expectedCalls {
		t.Errorf("expected %s to be called %d times, got %d", mock.Name(), expectedCalls, actual)
	}
}

// AssertNotCalled fails the test if the mock was called.
func AssertNotCalled[I, O any](t *testing.T, mock *MockStage[I, O]) {
	t.Helper()
	AssertCalled(t, mock, 0)
}

// AssertCalledWith fails the test unless the latest call received expected.
func AssertCalledWith[I comparable, O any](t *testing.T, mock *MockStage[I, O], expected I) {
	t.Helper()
	if mock.CallCount() == 0 {
		t.Errorf("expected %s to be called with %v, but it was never called", mock.Name(), expected)
		return
	}
	if actual := mock.LastInput(); actual != expected {
		t.Errorf("expected %s to be called with %v, got %v", mock.Name(), expected, actual)
	}
}

// AssertCoerces fails the test unless c turns input into expected.
func AssertCoerces[I, O any](t *testing.T, c coercez.Coercer[I, O], input I, expected O) {
	t.Helper()
	actual, err := c.Coerce(input)
	if err != nil {
		t.Errorf("%s: expected %#v to coerce, got %v", c.Name(), input, err)
		return
	}
	if !reflect.DeepEqual(actual, expected) {
		t.Errorf("%s: coerced %#v to %#v, expected %#v", c.Name(), input, actual, expected)
	}
}

// AssertRejects fails the test unless c rejects input with an expectation
// failure. It returns the failure for further checks.
func AssertRejects[I, O any](t *testing.T, c coercez.Coercer[I, O], input I) *coercez.Error {
	t.Helper()
	actual, err := c.Coerce(input)
	if err == nil {
		t.Errorf("%s: expected %#v to be rejected, got %#v", c.Name(), input, actual)
		return nil
	}
	var coerceErr *coercez.Error
	if !errors.As(err, &coerceErr) || !errors.Is(err, coercez.ErrExpectation) {
		t.Errorf("%s: expected an expectation failure for %#v, got %v", c.Name(), input, err)
		return nil
	}
	return coerceErr
}

// AssertGuard fails the test unless the guard passes every value in accepted
// through unchanged and rejects every value in rejected.
func AssertGuard[T any](t *testing.T, guard coercez.Coercer[T, T], accepted, rejected []T) {
	t.Helper()
	for _, value := range accepted {
		AssertCoerces(t, guard, value, value)
	}
	for _, value := range rejected {
		AssertRejects(t, guard, value)
	}
}

// WaitForCalls polls until the mock has been called expectedCalls times or
// timeout elapses.
func WaitForCalls[I, O any](mock *MockStage[I, O], expectedCalls int, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if mock.CallCount() >= expectedCalls {
			return true
		}
		time.Sleep(time.Millisecond)
	}
	return false
}

// ParallelTest runs testFunc in goroutines concurrently and waits for all of
// them.
func ParallelTest(t *testing.T, goroutines int, testFunc func(int)) {
	t.Helper()
	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func(id int) {
			defer wg.Done()
			testFunc(id)
		}(i)
	}
	wg.Wait()
}
