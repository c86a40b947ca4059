// Package dto 定义数据传输对象（请求参数和响应结构体）
package dto

// LinkListRequest 链接列表参数
type LinkListRequest struct {
	Limit int `json:"limit" form:"limit" binding:"omitempty,min=1,max=25"`
}

// StatusListRequest 动态列表参数
type StatusListRequest struct {
	Limit int `json:"limit" form:"limit" binding:"omitempty,min=1,max=50"`
}

// LinkShareRequest shares a link with optional thoughts; the JSON and agent front doors use it.
type LinkShareRequest struct {
	URL          string `json:"url" form:"url" binding:"required,url,max=2048"`
	Thoughts     string `json:"thoughts" form:"thoughts" binding:"omitempty,max=2000"`
	CategoryHint string `json:"category_hint" form:"category_hint" binding:"omitempty,locket_category"`
}

// WebLinkAddRequest 表单添加链接
type WebLinkAddRequest struct {
	URL      string `form:"url" binding:"required,url,max=2048"`
	Category string `form:"category" binding:"required,locket_category"`
}

// WebStatusWithLinkRequest 表单分享链接, 想法最多 200 字
type WebStatusWithLinkRequest struct {
	URL          string `form:"url" binding:"required,url,max=2048"`
	Thoughts     string `form:"thoughts" binding:"omitempty,max=200"`
	CategoryHint string `form:"category_hint" binding:"omitempty,locket_category"`
}

// LinkNoteRequest 添加笔记
type LinkNoteRequest struct {
	LinkID int64  `json:"link_id" form:"link_id" binding:"required,min=1"`
	Note   string `json:"note" form:"note" binding:"required,notblank,max=2000"`
}

// WebLinkNoteRequest 表单笔记最多 1000 字
type WebLinkNoteRequest struct {
	LinkID int64  `form:"link_id" binding:"required,min=1"`
	Note   string `form:"note" binding:"required,notblank,max=1000"`
}

// UserLinkUpdateRequest 更新书签状态或分类
type UserLinkUpdateRequest struct {
	Status   string `json:"status" form:"status" binding:"omitempty,locket_status"`
	Category string `json:"category" form:"category" binding:"omitempty,locket_category"`
}

// StatusCreateRequest 发布动态; link_id 省略时挂到最近的书签
type StatusCreateRequest struct {
	Status string `json:"status" form:"status" binding:"required,notblank,max=500"`
	LinkID int64  `json:"link_id" form:"link_id" binding:"omitempty,min=1"`
}
