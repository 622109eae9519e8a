package seed

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zackiepharma/m/domain"
	"zackiepharma/m/internal/store"
	"zackiepharma/m/internal/testutil"
)

const catalog = `name,category,price,quantity,reorder_level
Panadol,Painkillers,2.5,100,10
Brufen,Painkillers,3.75,40,
Amoxil,Antibiotics,12,20,5
,Antibiotics,1,1,1
`

func TestLoadProducts(t *testing.T) {
	db := testutil.NewDB(t)
	s := store.New(db)
	path := filepath.Join(t.TempDir(), "products.csv")
	require.NoError(t, os.WriteFile(path, []byte(catalog), 0o600))

	n, err := LoadProducts(context.Background(), db, path)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = LoadProducts(context.Background(), db, path)
	require.NoError(t, err)
	assert.Zero(t, n)

	products, err := s.ListProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 3)

	categories, err := s.ListCategories(context.Background())
	require.NoError(t, err)
	assert.Len(t, categories, 2)
}

func TestLoadProductsMissingFile(t *testing.T) {
	db := testutil.NewDB(t)
	_, err := LoadProducts(context.Background(), db, filepath.Join(t.TempDir(), "absent.csv"))
	assert.Error(t, err)
}

func TestEnsureAdmin(t *testing.T) {
	s := testutil.NewStore(t)
	ctx := context.Background()

	created, err := EnsureAdmin(ctx, s, "", "")
	require.NoError(t, err)
	assert.False(t, created)

	created, err = EnsureAdmin(ctx, s, "root", "pass")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = EnsureAdmin(ctx, s, "root", "pass")
	require.NoError(t, err)
	assert.False(t, created)

	user, err := s.UserByUsername(ctx, "root")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, user.Role)
}
