package requestresponse

// BookRequest : тело запроса создания или обновления книги
type BookRequest struct {
	Title         string `json:"title" example:"Мастер и Маргарита"`
	Author        string `json:"author" example:"Михаил Булгаков"`
	Publisher     string `json:"publisher" example:"АСТ"`
	PublishedDate string `json:"published_date" example:"1967-01-01"`
	PageCount     int    `json:"page_count" example:"480"`
	Language      string `json:"language" example:"ru"`
}

// CoverURLResponse : pre-signed URL обложки
type CoverURLResponse struct {
	URL string `json:"url" example:"https://s3.example.com/covers/uuid.jpg?X-Amz-Signature=..."`
}
