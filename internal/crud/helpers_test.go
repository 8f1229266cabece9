package crud

import (
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// gadget and part are small models exercising unique and foreign key
// constraints without depending on the real domain.
type gadget struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Code      string `gorm:"size:50;uniqueIndex;not null" json:"code"`
	Name      string `gorm:"size:100" json:"name"`
	Qty       int    `json:"qty"`
	Parts     []part `gorm:"foreignKey:GadgetID" json:"parts,omitempty"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type part struct {
	ID       uint    `gorm:"primaryKey" json:"id"`
	GadgetID uint    `gorm:"not null" json:"gadget_id"`
	Label    string  `json:"label"`
	Gadget   *gadget `gorm:"foreignKey:GadgetID" json:"gadget,omitempty"`
}

type gadgetPatch struct {
	Code *string `json:"code"`
	Name *string `json:"name" binding:"omitempty,max=100"`
	Qty  *int    `json:"qty"`
}

func (p gadgetPatch) Apply(g *gadget) []string {
	var cols []string
	if p.Code != nil {
		g.Code = *p.Code
		cols = append(cols, "code")
	}
	if p.Name != nil {
		g.Name = *p.Name
		cols = append(cols, "name")
	}
	if p.Qty != nil {
		g.Qty = *p.Qty
		cols = append(cols, "qty")
	}
	return cols
}

func ptr[T any](v T) *T { return &v }

// newTestDB opens a private in-memory SQLite database with foreign keys on.
// The pool is limited to one connection because every new connection to
// :memory: would see its own empty database.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:?_pragma=foreign_keys(1)"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&gadget{}, &part{}))
	return db
}

func seedGadgets(t *testing.T, db *gorm.DB, n int) []gadget {
	t.Helper()

	items := make([]gadget, 0, n)
	for i := 1; i <= n; i++ {
		items = append(items, gadget{
			Code: fmt.Sprintf("G-%03d", i),
			Name: fmt.Sprintf("gadget %d", i),
			Qty:  i,
		})
	}
	require.NoError(t, db.Create(&items).Error)
	return items
}
