package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/vendafacil-api/pkg/jwt"
)

func TestGenerateYParse(t *testing.T) {
	token, err := jwt.Generate("secreto", "emp-1", "comp-1", "seller", "vendafacil", 5)
	require.NoError(t, err)

	userID, companyID, role, err := jwt.Parse("secreto", token)
	require.NoError(t, err)
	assert.Equal(t, "emp-1", userID)
	assert.Equal(t, "comp-1", companyID)
	assert.Equal(t, "seller", role)
}

func TestParse_FirmaIncorrecta(t *testing.T) {
	token, err := jwt.Generate("secreto", "emp-1", "comp-1", "admin", "vendafacil", 5)
	require.NoError(t, err)

	_, _, _, err = jwt.Parse("otro-secreto", token)
	require.Error(t, err)
}

func TestParse_Expirado(t *testing.T) {
	token, err := jwt.Generate("secreto", "emp-1", "comp-1", "admin", "vendafacil", -1)
	require.NoError(t, err)

	_, _, _, err = jwt.Parse("secreto", token)
	require.Error(t, err)
}

func TestGenerate_SinSecreto(t *testing.T) {
	_, err := jwt.Generate("", "emp-1", "comp-1", "admin", "vendafacil", 5)
	require.Error(t, err)
}
