package model

type WatchlistReq struct {
	ArtistId int64 `json:"artist_id" binding:"required,gt=0"`
}
