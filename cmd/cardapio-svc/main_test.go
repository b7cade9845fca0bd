package main

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cardapio-virtual/config"
)

type recordingWriter struct {
	mu       sync.Mutex
	messages []kafka.Message
}

func (w *recordingWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.messages = append(w.messages, msgs...)
	return nil
}

func testConfig(t *testing.T) *config.Config {
	return &config.Config{
		Images:         config.ImagesConfig{Dir: t.TempDir(), URLPrefix: "/static/images"},
		PublicBaseURL:  "http://localhost:8000",
		Redis:          config.RedisConfig{CategoriesTTL: time.Minute},
		MaxUploadBytes: 1 << 20,
	}
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestNewRouter_CategoriesAreCached(t *testing.T) {
	db, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	sqlMock.ExpectQuery("SELECT DISTINCT UPPER\\(category\\)").
		WillReturnRows(sqlmock.NewRows([]string{"category"}).AddRow("BEBIDAS").AddRow("DOCES"))

	router, ranking, err := newRouter(testConfig(t), dependencies{db: db, redis: rdb}, quietLogger())
	require.NoError(t, err)
	assert.NotNil(t, ranking)

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/cardapio/obter_categorias", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `["BEBIDAS","DOCES"]`)
	}
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestNewRouter_WithoutRedis(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	router, ranking, err := newRouter(testConfig(t), dependencies{db: db}, quietLogger())
	require.NoError(t, err)
	assert.Nil(t, ranking)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/cardapio/obter_mais_pedidos", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestNewRouter_PublishesOrderEvents(t *testing.T) {
	db, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	sqlMock.ExpectQuery("DELETE FROM orders WHERE id = \\$1 AND status = ANY").
		WithArgs(3, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "status", "total_price", "created_at", "updated_at"}).
			AddRow(3, "ENTREGUE", "20.00", now, now))

	writer := &recordingWriter{}
	router, _, err := newRouter(testConfig(t), dependencies{db: db, writer: writer}, quietLogger())
	require.NoError(t, err)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("DELETE", "/cardapio/deletar_pedido/3", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NoError(t, sqlMock.ExpectationsWereMet())
	require.Len(t, writer.messages, 1)
	assert.Equal(t, []byte("3"), writer.messages[0].Key)
	assert.Contains(t, string(writer.messages[0].Value), `"type":"order_deleted"`)
}
