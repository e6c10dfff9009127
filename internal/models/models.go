// Package models holds the JSON wire types of the shorten service.
package models

type ShortenReq struct {
	ShortURL string `json:"short_url"`
	LongURL  string `json:"long_url"`
}

type ShortenRes struct {
	ShortURL string `json:"short_url"`
	LongURL  string `json:"long_url"`
}

type StatsRes struct {
	ShortURL    string `json:"short_url"`
	LookupCount int64  `json:"lookup_count"`
}

type ErrorRes struct {
	Message string `json:"message"`
}
