package event_bus

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventBus_Publish(t *testing.T) {
	t.Run("should call handlers in subscription order", func(t *testing.T) {
		// given
		bus := NewEventBus()
		var calls []string
		bus.Subscribe(ExpenseCreated, func(e Event) error { calls = append(calls, "first"); return nil })
		bus.Subscribe(ExpenseCreated, func(e Event) error { calls = append(calls, "second"); return nil })
		bus.Subscribe(ExpenseDeleted, func(e Event) error { calls = append(calls, "other"); return nil })

		// when
		err := bus.Publish(NewEvent(context.Background(), ExpenseCreated, ExpenseChanged{Id: 1}))

		// then
		require.NoError(t, err)
		assert.Equal(t, []string{"first", "second"}, calls)
	})

	t.Run("should keep going after a failing or panicking handler", func(t *testing.T) {
		// given
		bus := NewEventBus()
		called := false
		bus.Subscribe(BudgetUpdated, func(e Event) error { return errors.New("boom") })
		bus.Subscribe(BudgetUpdated, func(e Event) error { panic("bad handler") })
		bus.Subscribe(BudgetUpdated, func(e Event) error { called = true; return nil })

		// when
		err := bus.Publish(NewEvent(context.Background(), BudgetUpdated, BudgetChanged{Month: "2024-05"}))

		// then
		assert.True(t, called)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "2 handler(s) failed")
		assert.Contains(t, err.Error(), "boom")
		assert.Contains(t, err.Error(), "bad handler")
	})

	t.Run("should not publish on a cancelled context", func(t *testing.T) {
		// given
		bus := NewEventBus()
		called := false
		bus.Subscribe(ExpenseCreated, func(e Event) error { called = true; return nil })
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		// when
		err := bus.Publish(NewEvent(ctx, ExpenseCreated, nil))

		// then
		assert.ErrorIs(t, err, context.Canceled)
		assert.False(t, called)
	})
}

func TestEventBus_Unsubscribe(t *testing.T) {
	// given
	bus := NewEventBus()
	count := 0
	unsubscribe := bus.SubscribeAll([]EventType{CategoryCreated, CategoryDeleted}, func(e Event) error {
		count++
		return nil
	})
	require.NoError(t, bus.Publish(NewEvent(context.Background(), CategoryCreated, nil)))
	require.NoError(t, bus.Publish(NewEvent(context.Background(), CategoryDeleted, nil)))

	// when
	unsubscribe()
	require.NoError(t, bus.Publish(NewEvent(context.Background(), CategoryCreated, nil)))

	// then
	assert.Equal(t, 2, count)
}

func TestSubscribeTyped(t *testing.T) {
	// given
	bus := NewEventBus()
	var received []CategoryChanged
	SubscribeTyped(bus, CategoryRenamed, func(e EventT[CategoryChanged]) error {
		received = append(received, e.Data)
		return nil
	})

	// when
	require.NoError(t, bus.Publish(NewEvent(context.Background(), CategoryRenamed, CategoryChanged{Id: 2, Name: "Travel", OldName: "Transportation"})))
	require.NoError(t, bus.Publish(NewEvent(context.Background(), CategoryRenamed, "not a category")))

	// then
	require.Len(t, received, 1)
	assert.Equal(t, "Travel", received[0].Name)
	assert.Equal(t, "Transportation", received[0].OldName)
}
