package requestresponse

// AddReviewRequest : тело запроса добавления отзыва
type AddReviewRequest struct {
	Rating     int    `json:"rating" example:"5"`
	ReviewText string `json:"review_text" example:"Отличная книга"`
}
