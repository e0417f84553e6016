package dto

import "time"

type RefreshTokenOutput struct {
	Token  string    `json:"token"`
	UserID string    `json:"userId"`
	Device string    `json:"device"`
	Exp    time.Time `json:"exp"`
}

type TokenPairOutput struct {
	AccessToken  string             `json:"accessToken"`
	RefreshToken RefreshTokenOutput `json:"refreshToken"`
}
