package dto

// UserCreateRequest 创建用户 (命令行)
type UserCreateRequest struct {
	Name           string `json:"name" binding:"required,max=255"`
	Email          string `json:"email" binding:"required,email,max=255"`
	GithubUsername string `json:"github_username" binding:"omitempty,max=255"`
	Avatar         string `json:"avatar" binding:"omitempty,url,max=1024"`
}

// TokenCreateRequest 创建访问令牌
type TokenCreateRequest struct {
	Name   string   `json:"name" form:"name" binding:"required,notblank,max=255"`
	Scopes []string `json:"scopes" form:"scopes"`
}
