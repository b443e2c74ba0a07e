package requestresponse

// CreateTagRequest : тело запроса создания тега
type CreateTagRequest struct {
	Name string `json:"name" example:"классика"`
}

// AttachTagRequest : привязка тега к книге
type AttachTagRequest struct {
	TagUUID string `json:"tag_uuid" example:"b6a1e1c4-4b1d-4f1e-8b29-1234567890ab"`
}
