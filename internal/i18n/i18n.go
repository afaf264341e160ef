package i18n

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
)

// 支持的语言环境
const (
	LocaleFR = "fr"
	LocaleEN = "en"

	DefaultLocale = LocaleFR
)

var messages = map[string]map[string]string{
	LocaleFR: {
		"error.bad_request":            "requête invalide",
		"error.not_authenticated":      "authentification requise",
		"error.jwt_secret_missing":     "configuration du serveur incomplète",
		"error.auth_header_missing":    "en-tête d'authentification manquant",
		"error.auth_header_invalid":    "en-tête d'authentification invalide",
		"error.token_invalid":          "jeton invalide",
		"error.token_revoked":          "jeton révoqué, veuillez vous reconnecter",
		"error.access_denied":          "accès refusé",
		"error.not_found":              "ressource introuvable",
		"error.rate_limited":           "trop de requêtes, réessayez dans %d secondes",
		"error.login_rate_limited":     "trop de tentatives de connexion, réessayez dans %d secondes",
		"error.rate_limit_unavailable": "service de limitation indisponible",
		"error.internal":               "erreur interne du serveur",
		"error.product_not_found":      "produit introuvable",
		"error.product_inactive":       "ce produit n'est plus disponible",
		"error.insufficient_stock":     "stock insuffisant",
		"error.empty_cart":             "le panier est vide",
		"error.order_not_found":        "commande introuvable",
		"error.user_not_found":         "utilisateur introuvable",
		"error.email_taken":            "cette adresse e-mail est déjà utilisée",
		"error.invalid_credentials":    "identifiants invalides",
		"error.account_disabled":       "compte désactivé",
		"error.password_too_short":     "mot de passe trop court",
		"error.invalid_quantity":       "quantité invalide",
		"error.invalid_price":          "prix invalide",
		"error.self_delete":            "impossible de supprimer son propre compte",
		"error.upload_type":            "type de fichier non autorisé",
		"error.upload_too_large":       "fichier trop volumineux",
		"cart.added":                   "produit ajouté au panier",
		"cart.cleared":                 "panier vidé",
		"order.created":                "commande enregistrée",
		"order.updated":                "commande mise à jour",
		"order.deleted":                "commande supprimée",
		"product.created":              "produit créé",
		"product.updated":              "produit mis à jour",
		"product.deleted":              "produit supprimé",
		"user.registered":              "inscription réussie",
		"user.updated":                 "profil mis à jour",
		"user.deleted":                 "utilisateur supprimé",
		"auth.logged_out":              "déconnexion réussie",
		"success":                      "opération réussie",
	},
	LocaleEN: {
		"error.bad_request":            "invalid request",
		"error.not_authenticated":      "authentication required",
		"error.jwt_secret_missing":     "server configuration incomplete",
		"error.auth_header_missing":    "missing authorization header",
		"error.auth_header_invalid":    "invalid authorization header",
		"error.token_invalid":          "invalid token",
		"error.token_revoked":          "token revoked, please sign in again",
		"error.access_denied":          "access denied",
		"error.not_found":              "resource not found",
		"error.rate_limited":           "too many requests, try again in %d seconds",
		"error.login_rate_limited":     "too many login attempts, try again in %d seconds",
		"error.rate_limit_unavailable": "rate limiting service unavailable",
		"error.internal":               "internal server error",
		"error.product_not_found":      "product not found",
		"error.product_inactive":       "this product is no longer available",
		"error.insufficient_stock":     "insufficient stock",
		"error.empty_cart":             "cart is empty",
		"error.order_not_found":        "order not found",
		"error.user_not_found":         "user not found",
		"error.email_taken":            "this email address is already in use",
		"error.invalid_credentials":    "invalid credentials",
		"error.account_disabled":       "account disabled",
		"error.password_too_short":     "password too short",
		"error.invalid_quantity":       "invalid quantity",
		"error.invalid_price":          "invalid price",
		"error.self_delete":            "cannot delete your own account",
		"error.upload_type":            "file type not allowed",
		"error.upload_too_large":       "file too large",
		"cart.added":                   "product added to cart",
		"cart.cleared":                 "cart cleared",
		"order.created":                "order placed",
		"order.updated":                "order updated",
		"order.deleted":                "order deleted",
		"product.created":              "product created",
		"product.updated":              "product updated",
		"product.deleted":              "product deleted",
		"user.registered":              "registration successful",
		"user.updated":                 "profile updated",
		"user.deleted":                 "user deleted",
		"auth.logged_out":              "logged out",
		"success":                      "operation successful",
	},
}

// T 按语言环境翻译消息键，未知键返回键本身
func T(locale, key string) string {
	table, ok := messages[locale]
	if !ok {
		table = messages[DefaultLocale]
	}
	if msg, ok := table[key]; ok {
		return msg
	}
	if locale != DefaultLocale {
		if msg, ok := messages[DefaultLocale][key]; ok {
			return msg
		}
	}
	return key
}

// Sprintf 翻译后带参数格式化
func Sprintf(locale, key string, args ...interface{}) string {
	return fmt.Sprintf(T(locale, key), args...)
}

// ResolveLocale 从请求解析语言环境，优先级: query > cookie > Accept-Language
func ResolveLocale(c *gin.Context) string {
	if l := normalize(c.Query("lang")); l != "" {
		return l
	}
	if cookie, err := c.Cookie("lang"); err == nil {
		if l := normalize(cookie); l != "" {
			return l
		}
	}
	accept := c.GetHeader("Accept-Language")
	for _, part := range strings.Split(accept, ",") {
		tag := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		if l := normalize(tag); l != "" {
			return l
		}
	}
	return DefaultLocale
}

func normalize(tag string) string {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if tag == "" {
		return ""
	}
	if idx := strings.IndexByte(tag, '-'); idx > 0 {
		tag = tag[:idx]
	}
	if _, ok := messages[tag]; ok {
		return tag
	}
	return ""
}
