package web_router

import (
	"github.com/haierkeys/locket-service/internal/dto"
	pkgapp "github.com/haierkeys/locket-service/pkg/app"
	"github.com/haierkeys/locket-service/pkg/code"
	"github.com/haierkeys/locket-service/pkg/convert"

	"github.com/gin-gonic/gin"
)

// StoreLink adds a link with a chosen category and shares a status for it.
func (h *Handler) StoreLink(c *gin.Context) {
	params := &dto.WebLinkAddRequest{}
	if valid, errs := pkgapp.BindAndValid(c, params); !valid {
		h.invalid(c, errs)
		return
	}

	result, err := h.App.LinkService.ShareLink(c.Request.Context(), pkgapp.GetUID(c), &dto.LinkShareRequest{
		URL:          params.URL,
		CategoryHint: params.Category,
	})
	if err != nil {
		h.fail(c, "web.StoreLink", err, "")
		return
	}

	if result.AlreadyBookmarked {
		h.success(c, "Link was already in your collection! Status shared.")
		return
	}
	h.success(c, "Link added to your collection and status shared!")
}

// StoreNote 添加笔记
func (h *Handler) StoreNote(c *gin.Context) {
	params := &dto.WebLinkNoteRequest{}
	if valid, errs := pkgapp.BindAndValid(c, params); !valid {
		h.invalid(c, errs)
		return
	}

	result, err := h.App.LinkService.AddNote(c.Request.Context(), pkgapp.GetUID(c), &dto.LinkNoteRequest{
		LinkID: params.LinkID,
		Note:   params.Note,
	})
	if err != nil {
		h.fail(c, "web.StoreNote", err, "")
		return
	}
	h.success(c, result.Message)
}

// UpdateUserLink 修改书签状态或分类
func (h *Handler) UpdateUserLink(c *gin.Context) {
	id, err := convert.StrTo(c.Param("id")).Int64()
	if err != nil || id <= 0 {
		h.fail(c, "web.UpdateUserLink", code.ErrorUserLinkNotFound.Clone(), "")
		return
	}

	params := &dto.UserLinkUpdateRequest{}
	if valid, errs := pkgapp.BindAndValid(c, params); !valid {
		h.invalid(c, errs)
		return
	}

	result, err := h.App.LinkService.UpdateBookmark(c.Request.Context(), pkgapp.GetUID(c), id, params)
	if err != nil {
		h.fail(c, "web.UpdateUserLink", err, "")
		return
	}
	h.success(c, result.Message)
}

// StoreStatusWithLink the inline "share a link" form
func (h *Handler) StoreStatusWithLink(c *gin.Context) {
	params := &dto.WebStatusWithLinkRequest{}
	if valid, errs := pkgapp.BindAndValid(c, params); !valid {
		h.invalid(c, errs)
		return
	}

	result, err := h.App.LinkService.ShareLink(c.Request.Context(), pkgapp.GetUID(c), &dto.LinkShareRequest{
		URL:          params.URL,
		Thoughts:     params.Thoughts,
		CategoryHint: params.CategoryHint,
	})
	if err != nil {
		h.fail(c, "web.StoreStatusWithLink", err, "")
		return
	}
	h.success(c, result.Message)
}

// Bookmark the feed "bookmark" button
func (h *Handler) Bookmark(c *gin.Context) {
	id, err := convert.StrTo(c.Param("id")).Int64()
	if err != nil || id <= 0 {
		h.fail(c, "web.Bookmark", code.ErrorLinkNotFound.Clone(), "Failed to bookmark link.")
		return
	}

	result, err := h.App.LinkService.BookmarkLink(c.Request.Context(), pkgapp.GetUID(c), id)
	if err != nil {
		h.fail(c, "web.Bookmark", err, "Failed to bookmark link.")
		return
	}
	h.success(c, result.Message)
}

// StoreStatus 发布动态
func (h *Handler) StoreStatus(c *gin.Context) {
	params := &dto.StatusCreateRequest{}
	if valid, errs := pkgapp.BindAndValid(c, params); !valid {
		h.invalid(c, errs)
		return
	}

	if _, err := h.App.StatusService.Create(c.Request.Context(), pkgapp.GetUID(c), params); err != nil {
		h.fail(c, "web.StoreStatus", err, "")
		return
	}
	h.success(c, "Status updated successfully!")
}
