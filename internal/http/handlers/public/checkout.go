package public

import (
	"github.com/boutique-next/internal/http/response"
	"github.com/boutique-next/internal/i18n"
	"github.com/boutique-next/internal/service"

	"github.com/gin-gonic/gin"
)

// Checkout 结算购物车。登录与否均可结算：
// 登录用户订单记录其姓名与用户ID，匿名用户按占位客户名落单。
func (h *Handler) Checkout(c *gin.Context) {
	sid := getCartSessionID(c)
	locale := i18n.ResolveLocale(c)

	result, err := h.CheckoutService.Checkout(c.Request.Context(), service.CheckoutInput{
		SessionID: sid,
		User:      getOptionalUser(c),
		Locale:    locale,
	})
	if err != nil {
		respondWithMappedError(c, err, checkoutErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.SuccessWithMsg(c, i18n.T(locale, "order.created"), result)
}
