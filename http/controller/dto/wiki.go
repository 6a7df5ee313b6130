package dto

type SearchUsersQueryDTO struct {
	Keyword  string `form:"keyword"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

type PageQueryDTO struct {
	Page     int `form:"page" binding:"omitempty,min=1"`
	PageSize int `form:"pageSize" binding:"omitempty,min=1,max=100"`
}

type ReviewsQueryDTO struct {
	Status    string `form:"status"`
	ArticleID int64  `form:"article_id"`
}

type CommentRequestDTO struct {
	Content string `json:"content" binding:"required"`
}

type ReviewActionRequestDTO struct {
	Action        string `json:"action" binding:"required,oneof=approve reject"`
	Notes         string `json:"notes"`
	MergedContent string `json:"merged_content"`
}
