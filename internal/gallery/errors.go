package gallery

import "errors"

var (
	// ErrValidation локальная ошибка ввода, запрос в сеть не выполнялся
	ErrValidation = errors.New("validation failed")
	// ErrNoAssets бэкенд принял данные доступа, но не вернул ни одного ассета
	ErrNoAssets = errors.New("no assets found")
	// ErrAccessDenied бэкенд отклонил данные доступа
	ErrAccessDenied = errors.New("access denied")
	// ErrBusy авторизация уже выполняется
	ErrBusy = errors.New("operation already in progress")
)
