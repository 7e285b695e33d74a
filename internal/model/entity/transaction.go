package entity

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Transaction 成交流水，只追加不修改
type Transaction struct {
	Id       int64           `gorm:"column:id;primary_key;autoIncrement:false" json:"id"`
	UserId   int64           `gorm:"column:user_id;not null;index:idx_user_created,priority:1;uniqueIndex:idx_user_idem,priority:1" json:"user_id"`
	ArtistId int64           `gorm:"column:artist_id;not null;index" json:"artist_id"`
	Type     string          `gorm:"column:type;size:8;not null" json:"type"` // buy / sell
	Shares   int64           `gorm:"column:shares;not null" json:"shares"`
	Price    decimal.Decimal `gorm:"column:price;type:decimal(20,6);not null" json:"price"`
	Total    decimal.Decimal `gorm:"column:total_amount;type:decimal(20,2);not null" json:"total"`
	// 幂等键为空时存 NULL，唯一索引不约束
	IdempotencyKey *string        `gorm:"column:idempotency_key;size:64;uniqueIndex:idx_user_idem,priority:2" json:"idempotency_key,omitempty"`
	Extras         datatypes.JSON `gorm:"column:extras" json:"extras,omitempty"` // 请求元数据：request_id、客户端报价等
	CreatedAt      time.Time      `gorm:"column:created_at;not null;index:idx_user_created,priority:2" json:"created_at"`
}

func (Transaction) TableName() string {
	return "transaction"
}
