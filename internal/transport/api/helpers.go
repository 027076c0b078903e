package api

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/fsdevblog/tradesim/internal/transport/api/middlewares"
)

// getUserIDFromContext берет из контекста gin ID текущего юзера. ID устанавливается в
// middlewares.AuthRequired. В случае, если значения в контексте нет или ошибка
// утверждения типа - вернется 0.
func getUserIDFromContext(c *gin.Context) int64 {
	userIDStr, exist := c.Get(middlewares.CurrentUserIDKey)
	if !exist {
		return 0
	}
	userID, ok := userIDStr.(int64)
	if !ok {
		return 0
	}
	return userID
}

// parseShares разбирает кол-во акций из строки формы. Дробные и нечисловые
// значения не приводятся к целым, а отклоняются с разными сообщениями.
func parseShares(raw string) (int64, error) {
	if raw == "" {
		return 0, errors.New("must provide number of shares")
	}
	shares, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, errors.New("shares must be a whole number")
	}
	if shares <= 0 {
		return 0, errors.New("shares must be a positive integer")
	}
	return shares, nil
}
