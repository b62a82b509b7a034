package model

import "time"

// Timestamps 各目录模型共用的创建/更新时间字段
type Timestamps struct {
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
