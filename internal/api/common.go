package api

import (
	"errors"
	"math"

	"github.com/gofiber/fiber/v2"

	"nexusmart.com/internal/domain"
)

// Pagination 元数据结构
type Pagination struct {
	Page      int   `json:"Page"`      // 当前页码
	PageSize  int   `json:"PageSize"`  // 每页条数
	Total     int64 `json:"Total"`     // 总记录数
	TotalPage int   `json:"TotalPage"` // 总页数
	HasNext   bool  `json:"HasNext"`   // 是否有下一页
	HasPrev   bool  `json:"HasPrev"`   // 是否有上一页
}

// ListResponse 统一的分页响应结构
type ListResponse struct {
	Data       interface{} `json:"Data"`       // 数据列表
	Pagination Pagination  `json:"Pagination"` // 分页信息
}

// SendPaginatedResponse 发送标准的分页响应
func SendPaginatedResponse(c *fiber.Ctx, data interface{}, page, pageSize int, total int64) error {
	totalPage := 0
	if pageSize > 0 {
		totalPage = int(math.Ceil(float64(total) / float64(pageSize)))
	}

	return c.JSON(ListResponse{
		Data: data,
		Pagination: Pagination{
			Page:      page,
			PageSize:  pageSize,
			Total:     total,
			TotalPage: totalPage,
			HasNext:   page < totalPage,
			// Only claim a previous page when that page actually holds
			// data; a request far past the end has neither neighbor.
			HasPrev: page > 1 && page <= totalPage+1,
		},
	})
}

// SendError translates a service error into the HTTP error taxonomy.
// Validation and uniqueness failures carry field-level messages; everything
// else is a single detail line, never a raw store error.
func SendError(c *fiber.Ctx, err error) error {
	var appErr *domain.AppError
	if errors.As(err, &appErr) {
		if len(appErr.Fields) > 0 {
			return c.Status(appErr.Code).JSON(appErr.Fields)
		}
		return c.Status(appErr.Code).JSON(fiber.Map{"detail": appErr.Message})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"detail": "internal error"})
}
