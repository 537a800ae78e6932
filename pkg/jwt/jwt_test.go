package jwt_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/pkg/jwt"
)

const secret = "secreto-de-pruebas"

var bodeguero = entity.Actor{UserID: "u-bodega", Role: entity.RoleBodeguero}

func TestManager_SignYVerify_DevuelveActor(t *testing.T) {
	m, err := jwt.NewManager(secret, "inventario-ledger", time.Hour)
	require.NoError(t, err)

	tok, err := m.Sign(bodeguero)
	require.NoError(t, err)

	actor, err := m.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, bodeguero, actor)
}

func TestNewManager_SecretVacio(t *testing.T) {
	_, err := jwt.NewManager("", "x", time.Hour)
	assert.ErrorIs(t, err, jwt.ErrEmptySecret)

	_, err = jwt.Generate("", bodeguero, "x", 60)
	assert.ErrorIs(t, err, jwt.ErrEmptySecret)
}

func TestVerify_Rechazos(t *testing.T) {
	m, err := jwt.NewManager(secret, "inventario-ledger", time.Hour)
	require.NoError(t, err)

	expirado, err := jwt.Generate(secret, bodeguero, "inventario-ledger", -1)
	require.NoError(t, err)
	otroSecreto, err := jwt.Generate("otro-secreto", bodeguero, "inventario-ledger", 60)
	require.NoError(t, err)
	otroEmisor, err := jwt.Generate(secret, bodeguero, "otro-servicio", 60)
	require.NoError(t, err)
	sinUsuario, err := jwt.Generate(secret, entity.Actor{Role: entity.RoleAdmin}, "inventario-ledger", 60)
	require.NoError(t, err)

	cases := map[string]string{
		"expirado":     expirado,
		"otro secreto": otroSecreto,
		"otro emisor":  otroEmisor,
		"sin usuario":  sinUsuario,
		"malformado":   "token.invalido.aqui",
	}
	for name, tok := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := m.Verify(tok)
			assert.ErrorIs(t, err, jwt.ErrInvalidToken)
		})
	}
}

func TestVerify_SinEmisorConfiguradoAceptaCualquiera(t *testing.T) {
	m, err := jwt.NewManager(secret, "", time.Hour)
	require.NoError(t, err)
	tok, err := jwt.Generate(secret, bodeguero, "otro-servicio", 60)
	require.NoError(t, err)

	actor, err := m.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, bodeguero.UserID, actor.UserID)
}
