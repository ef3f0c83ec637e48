package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOptimisticUpdate_Rollback(t *testing.T) {
	value := 1
	u := BeginOptimistic(func() func() {
		prev := value
		value = 2
		return func() { value = prev }
	})
	assert.Equal(t, 2, value, "apply runs immediately")

	u.Rollback()
	assert.Equal(t, 1, value)

	u.Rollback()
	assert.Equal(t, 1, value, "double rollback is a no-op")
}

func TestOptimisticUpdate_CommitDisarmsRollback(t *testing.T) {
	value := 1
	u := BeginOptimistic(func() func() {
		prev := value
		value = 2
		return func() { value = prev }
	})

	u.Commit()
	u.Rollback()
	assert.Equal(t, 2, value, "rollback after commit changes nothing")
}
