package memorytabcheckfx

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap"

	"github.com/tabcheck/tabcheck"
	"github.com/tabcheck/tabcheck/internal/pool"
	"github.com/tabcheck/tabcheck/internal/store/memstore"
)

func TestModule(t *testing.T) {
	var (
		session *tabcheck.Session
		files   *memstore.Store
		p       *pool.Pool
	)
	app := fxtest.New(t,
		fx.Supply(zap.NewNop()),
		Module,
		fx.Populate(&session, &files, &p),
	)
	app.RequireStart()

	files.Put("part-r-00000.csv", []byte("1,2\n3,4\n"))
	rows, err := session.ReadRows(context.Background(), "mem://"+Host+"/part-r-00000.csv", 1)
	if err != nil {
		t.Fatalf("ReadRows() error = %v", err)
	}
	if len(rows) != 1 || !reflect.DeepEqual(rows[0].Values(), []string{"1", "2"}) {
		t.Errorf("ReadRows() = %v, want [[1 2]]", rows)
	}

	app.RequireStop()
	if err := session.Close(); !errors.Is(err, tabcheck.ErrClosed) {
		t.Errorf("Close() after stop error = %v, want ErrClosed", err)
	}
}
