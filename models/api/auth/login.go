package authapimodels

import "github.com/pkg/errors"

type LoginData struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (l LoginData) Validate() error {
	if l.Email == "" {
		return errors.New("отсутствует почта")
	}
	if l.Password == "" {
		return errors.New("отсутствует пароль")
	}
	return nil
}

type TokenView struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type RefreshData struct {
	RefreshToken string `json:"refresh_token"`
}

func (r RefreshData) Validate() error {
	if r.RefreshToken == "" {
		return errors.New("отсутствует refresh токен")
	}
	return nil
}
