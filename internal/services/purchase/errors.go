package purchase

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	// ErrPropertyNotFound — объект недвижимости не существует
	ErrPropertyNotFound = errors.New("объект недвижимости не найден")

	// ErrAlreadySold — объект уже продан другому покупателю
	ErrAlreadySold = errors.New("объект уже продан")

	// ErrSelfPurchase — владелец пытается купить собственный объект
	ErrSelfPurchase = errors.New("нельзя купить собственный объект")
)

// DuplicateRequestError возвращается при повторном запросе покупки той же парой
// (объект, покупатель). Несет ID и статус существующей записи, чтобы клиент
// мог показать или опросить её — это информационный конфликт, а не сбой.
type DuplicateRequestError struct {
	PurchaseID uuid.UUID
	Status     string
}

func (e *DuplicateRequestError) Error() string {
	return fmt.Sprintf("запрос на покупку уже существует: %s (статус %s)", e.PurchaseID, e.Status)
}
