package handler

import (
	"errors"
	"net/http"

	"community-mod/internal/pkg/apperr"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// fail 业务错误统一出口：internal 只落日志，对外一律泛化
func fail(c *gin.Context, err error) {
	status := apperr.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		c.JSON(status, gin.H{"msg": "internal error"})
		return
	}

	var ae *apperr.Error
	if errors.As(err, &ae) && len(ae.Fields) > 0 {
		c.JSON(status, gin.H{"msg": ae.Msg, "fields": ae.Fields})
		return
	}
	c.JSON(status, gin.H{"msg": err.Error()})
}
