package response

import "guesthouse-booking/internal/usecase/queries"

type LoginResponse struct {
	AccessToken string            `json:"access_token"`
	User        *queries.UserView `json:"user"`
}

type RegisterResponse struct {
	User *queries.UserView `json:"user"`
}

type RefreshResponse struct {
	AccessToken string `json:"access_token"`
}
