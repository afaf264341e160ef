package public

import (
	"errors"

	"github.com/boutique-next/internal/constants"
	"github.com/boutique-next/internal/http/response"
	"github.com/boutique-next/internal/i18n"
	"github.com/boutique-next/internal/service"

	"github.com/gin-gonic/gin"
)

// GetProfile 获取个人资料
func (h *Handler) GetProfile(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	user, err := h.UserAuthService.GetByID(uid)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			respondError(c, response.CodeNotFound, "error.user_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, user)
}

// UpdateProfile 更新个人资料（multipart，支持头像上传与改密）
func (h *Handler) UpdateProfile(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	input := service.ProfileUpdateInput{}
	if v, exists := c.GetPostForm("first_name"); exists {
		input.FirstName = &v
	}
	if v, exists := c.GetPostForm("last_name"); exists {
		input.LastName = &v
	}
	if v, exists := c.GetPostForm("email"); exists && v != "" {
		input.Email = &v
	}
	if v, exists := c.GetPostForm("locale"); exists {
		input.Locale = &v
	}
	if v, exists := c.GetPostForm("password"); exists && v != "" {
		input.Password = &v
	}

	if file, err := c.FormFile("photo"); err == nil && file != nil {
		path, err := h.UploadService.SaveFile(file, constants.UploadSceneProfile)
		if err != nil {
			respondWithMappedError(c, err, profileErrorRules, response.CodeInternal, "error.internal")
			return
		}
		input.Photo = &path
	}

	user, err := h.UserAuthService.UpdateProfile(c.Request.Context(), uid, input)
	if err != nil {
		respondWithMappedError(c, err, profileErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.SuccessWithMsg(c, i18n.T(i18n.ResolveLocale(c), "user.updated"), user)
}
