package dto

type RefreshInput struct {
	RefreshToken string `json:"-"`
	Device       string `json:"-"`
}
