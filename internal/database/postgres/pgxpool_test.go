package postgres

import (
	"testing"

	"skillswap/internal/database"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
)

func TestIsoLevel(t *testing.T) {
	assert.Equal(t, pgx.ReadCommitted, isoLevel(database.ReadCommitted))
	assert.Equal(t, pgx.RepeatableRead, isoLevel(database.RepeatableRead))
	assert.Equal(t, pgx.Serializable, isoLevel(database.Serializable))
}

func TestNilPool(t *testing.T) {
	var p *Pool
	_, err := p.BeginTx(t.Context(), database.TxOptions{})
	assert.Error(t, err)
	assert.NoError(t, p.Close())
}
