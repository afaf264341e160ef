package constants

// 用户角色常量
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// 匿名下单的客户名快照
const AnonymousCustomer = "anonymous customer"

// 队列常量
const (
	QueueDefault               = "default"
	TaskOrderConfirmationEmail = "order:confirmation_email"
)

// 上传场景常量
const (
	UploadSceneProduct = "product"
	UploadSceneProfile = "profile"
)

// 购物车会话 Cookie 名称
const CartSessionCookie = "boutique_cart_session"
