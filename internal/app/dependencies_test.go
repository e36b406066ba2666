package app

import (
	"context"
	"io"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/sales/internal/domain"
)

func testLogger() *log.Entry {
	logger := log.New()
	logger.SetOutput(io.Discard)
	return logger.WithField("component", "test")
}

func TestNewDependencies_Memory(t *testing.T) {
	deps, err := NewDependencies(context.Background(), Config{Storage: StorageMemory}, testLogger())
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, deps.Close()) })

	require.NotNil(t, deps.Products)
	require.NotNil(t, deps.OrderLog)
	require.NotNil(t, deps.Reorder)
	require.NotNil(t, deps.Users)
	require.NotNil(t, deps.Purchases)
	require.NoError(t, deps.PingStore(context.Background()))
}

func TestNewDependencies_File(t *testing.T) {
	dir := t.TempDir()
	deps, err := NewDependencies(context.Background(), Config{Storage: StorageFile, DataDir: dir}, testLogger())
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, deps.Close()) })

	// Пустой каталог данных читается как отсутствие данных.
	products, err := deps.Products.Load()
	require.NoError(t, err)
	require.Empty(t, products)
}

func TestNewDependencies_UnknownStorage(t *testing.T) {
	_, err := NewDependencies(context.Background(), Config{Storage: "redis"}, testLogger())
	require.Error(t, err)
}

func TestRestoreAndSaveState_FileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cfg := Config{Storage: StorageFile, DataDir: dir, DefaultReorderLevel: 5}

	deps, err := NewDependencies(context.Background(), cfg, testLogger())
	require.NoError(t, err)

	st, err := restoreState(deps, cfg)
	require.NoError(t, err)

	id, err := st.svc.AddProduct("Notebook", 1250, 30)
	require.NoError(t, err)
	require.NoError(t, st.svc.SetReorderLevel(id, 10))
	_, err = st.svc.RegisterUser("vlad", "secret")
	require.NoError(t, err)

	require.NoError(t, saveState(deps, st))

	// Второй запуск видит сохранённое состояние.
	deps2, err := NewDependencies(context.Background(), cfg, testLogger())
	require.NoError(t, err)
	st2, err := restoreState(deps2, cfg)
	require.NoError(t, err)

	p, err := st2.svc.Product(id)
	require.NoError(t, err)
	require.Equal(t, domain.Product{ID: id, Name: "Notebook", PriceMinor: 1250, Stock: 30}, *p)
	require.EqualValues(t, 10, st2.svc.ReorderLevelFor(id))
	_, err = st2.svc.Login("vlad", "secret")
	require.NoError(t, err)

	// Счётчик идентификаторов продолжается после рестарта.
	id2, err := st2.svc.AddProduct("Pen", 100, 5)
	require.NoError(t, err)
	require.Equal(t, id+1, id2)
}
