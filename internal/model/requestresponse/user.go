package requestresponse

import "book-review-api/internal/model"

// ProfileResponse : текущий пользователь и его книги
type ProfileResponse struct {
	User  *model.User   `json:"user"`
	Books []*model.Book `json:"books"`
}
