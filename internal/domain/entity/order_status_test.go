package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

func TestOrderStatus_CanTransitionTo(t *testing.T) {
	assert.True(t, entity.StatusNew.CanTransitionTo(entity.StatusPending))
	assert.True(t, entity.StatusNew.CanTransitionTo(entity.StatusCancelled))
	assert.True(t, entity.StatusPending.CanTransitionTo(entity.StatusProcessing))
	assert.True(t, entity.StatusPending.CanTransitionTo(entity.StatusCompleted))
	assert.True(t, entity.StatusProcessing.CanTransitionTo(entity.StatusProcessing))

	assert.False(t, entity.StatusPending.CanTransitionTo(entity.StatusCancelled), "solo se cancela en NEW")
	assert.False(t, entity.StatusCompleted.CanTransitionTo(entity.StatusProcessing))
	assert.False(t, entity.StatusCompleted.CanTransitionTo(entity.StatusCompleted))
	assert.False(t, entity.StatusCancelled.CanTransitionTo(entity.StatusNew))
}

func TestActor_CanManage(t *testing.T) {
	admin := entity.Actor{UserID: "u-admin", Role: entity.RoleAdmin}
	owner := entity.Actor{UserID: "u-1", Role: entity.RoleVendedor}
	other := entity.Actor{UserID: "u-2", Role: entity.RoleVendedor}

	assert.True(t, admin.CanManage("u-1"))
	assert.True(t, owner.CanManage("u-1"))
	assert.False(t, other.CanManage("u-1"))
	assert.False(t, entity.Actor{}.CanManage(""))
}
