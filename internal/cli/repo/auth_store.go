package repo

// TokenStore описывает абстракцию хранилища auth-токена на клиенте.
type TokenStore interface {
	Save(token string) error
	Load() (string, error)
	// Clear забывает токен при logout.
	Clear() error
}

// LoginStore хранит логин последнего входа для подсказок CLI.
type LoginStore interface {
	SaveLogin(login string) error
	LoadLogin() (string, error)
}

// AuthStore — всё, что клиент помнит о пользователе между запусками.
type AuthStore interface {
	TokenStore
	LoginStore
}
