// Package handlers provides HTTP API handlers for the Unicus token registry
package handlers

import (
	"fmt"
	"math/big"
	"net/http"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"github.com/unicus/v1/internal/api/http/middleware"
	httptypes "github.com/unicus/v1/internal/api/http/types"
	apitypes "github.com/unicus/v1/internal/api/types"
	"github.com/unicus/v1/pkg/utils"
)

// respond 写入统一成功响应
func respond(c *gin.Context, status int, data interface{}) {
	c.JSON(status, httptypes.NewSuccessResponse(data).WithRequestID(middleware.GetRequestID(c)))
}

// fail 上报错误，由 ErrorHandler 中间件转换为 Problem Details
func fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// invalid 上报参数错误
func invalid(c *gin.Context, format string, args ...interface{}) {
	fail(c, apitypes.Validation(fmt.Sprintf(format, args...), nil))
}

// caller 取出签名中间件写入的调用者地址
func caller(c *gin.Context) (common.Address, bool) {
	addr, ok := middleware.CallerFrom(c)
	if !ok {
		fail(c, apitypes.NewProblemDetails(apitypes.CodeAuthMissingAddress, apitypes.LayerAPI,
			"缺少调用者身份", "caller identity missing", http.StatusUnauthorized, nil))
	}
	return addr, ok
}

// tokenIDParam 解析路径中的代币ID
func tokenIDParam(c *gin.Context) (uint64, bool) {
	raw := c.Param("id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		invalid(c, "invalid token id: %s", raw)
		return 0, false
	}
	return id, true
}

// addressValue 解析十六进制地址
func addressValue(c *gin.Context, field, raw string) (common.Address, bool) {
	if !common.IsHexAddress(raw) {
		invalid(c, "invalid address for %s: %s", field, raw)
		return common.Address{}, false
	}
	return common.HexToAddress(raw), true
}

// amountValue 解析金额，wei 优先，其次 ether 小数
func amountValue(c *gin.Context, field, wei, ether string) (*big.Int, bool) {
	var (
		v   *big.Int
		err error
	)
	if wei != "" {
		v, err = utils.ParseWei(wei)
	} else {
		v, err = utils.ParseEtherToWei(ether)
	}
	if err != nil {
		invalid(c, "invalid amount for %s: %v", field, err)
		return nil, false
	}
	return v, true
}

// bindJSON 绑定请求体
func bindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		invalid(c, "invalid request body: %v", err)
		return false
	}
	return true
}
