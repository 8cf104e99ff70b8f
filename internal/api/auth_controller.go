package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tiorionjames/dewlist/internal/auth"
	"github.com/tiorionjames/dewlist/internal/service"
)

// AuthController 认证控制器
type AuthController struct {
	userService service.UserService
}

// NewAuthController 创建认证控制器
func NewAuthController(userService service.UserService) *AuthController {
	return &AuthController{
		userService: userService,
	}
}

// LoginResponse 登录响应
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type" example:"bearer"`
}

// Register 用户注册
// @Summary      用户注册
// @Description  注册新用户,默认角色为普通用户
// @Tags         认证
// @Accept       json
// @Produce      json
// @Param        request body service.RegisterRequest true "注册信息"
// @Success      200  {object}  Response
// @Failure      400  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Router       /auth/register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	var req service.RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		Error(ctx, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	user, err := c.userService.Register(&req)
	if err != nil {
		ServiceError(ctx, err)
		return
	}

	Success(ctx, user)
}

// Login 用户登录
// @Summary      用户登录
// @Description  邮箱密码登录,返回 JWT 访问令牌
// @Tags         认证
// @Accept       json
// @Produce      json
// @Param        request body service.LoginRequest true "登录信息"
// @Success      200  {object}  Response
// @Failure      400  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Router       /auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req service.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		Error(ctx, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	token, _, err := c.userService.Login(req.Email, req.Password)
	if err != nil {
		ServiceError(ctx, err)
		return
	}

	Success(ctx, LoginResponse{AccessToken: token, TokenType: "bearer"})
}

// Me 当前用户信息
// @Summary      当前用户信息
// @Description  返回当前登录用户的信息
// @Tags         认证
// @Produce      json
// @Success      200  {object}  Response
// @Failure      401  {object}  ErrorResponse
// @Router       /auth/me [get]
// @Security     BearerAuth
func (c *AuthController) Me(ctx *gin.Context) {
	p := auth.CurrentPrincipal(ctx)

	user, err := c.userService.Get(p.ID)
	if err != nil {
		ServiceError(ctx, err)
		return
	}

	Success(ctx, user)
}

// ForgotPassword 申请密码重置
// @Summary      申请密码重置
// @Description  为指定邮箱生成重置令牌并发送通知;邮箱不存在时同样返回成功
// @Tags         认证
// @Accept       json
// @Produce      json
// @Param        request body service.ForgotPasswordRequest true "邮箱"
// @Success      200  {object}  Response
// @Failure      400  {object}  ErrorResponse
// @Router       /auth/forgot-password [post]
func (c *AuthController) ForgotPassword(ctx *gin.Context) {
	var req service.ForgotPasswordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		Error(ctx, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	if err := c.userService.ForgotPassword(req.Email); err != nil {
		ServiceError(ctx, err)
		return
	}

	Success(ctx, gin.H{"message": "if the email exists, a reset link has been sent"})
}

// ResetPassword 重置密码
// @Summary      重置密码
// @Description  使用重置令牌设置新密码,令牌一小时内有效
// @Tags         认证
// @Accept       json
// @Produce      json
// @Param        request body service.ResetPasswordRequest true "令牌与新密码"
// @Success      200  {object}  Response
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /auth/reset-password [post]
func (c *AuthController) ResetPassword(ctx *gin.Context) {
	var req service.ResetPasswordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		Error(ctx, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	if err := c.userService.ResetPassword(req.Token, req.NewPassword); err != nil {
		ServiceError(ctx, err)
		return
	}

	Success(ctx, gin.H{"message": "password updated"})
}
