package domain

import (
	"time"
)

// Client 是接受上门服务的客户，每周班型和排班实例都挂在客户下。
type Client struct {
	ID        int64     `json:"id"`
	Code      string    `json:"code"`
	FullName  string    `json:"fullName"`
	Address   string    `json:"address"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	Version   int32     `json:"-"`
}
