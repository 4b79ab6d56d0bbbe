package handler

import (
	"net/http"
	"strconv"

	"ShengHang/internal/dto"
	"ShengHang/internal/middleware"
	"ShengHang/internal/model"
	"ShengHang/internal/service"
	"ShengHang/pkg/logger"

	"github.com/gin-gonic/gin"
)

type CommentHandler interface {
	PublishComment(c *gin.Context)
	DeleteComment(c *gin.Context)
	LikeComment(c *gin.Context)
	ReportComment(c *gin.Context)

	GetCommentsByTarget(c *gin.Context)
	GetCommentDetail(c *gin.Context)
	GetCommentStats(c *gin.Context)
	GetMyComments(c *gin.Context)
}

type commentHandler struct {
	CommentService service.CommentService
}

func NewCommentHandler(commentService service.CommentService) CommentHandler {
	return &commentHandler{CommentService: commentService}
}

// 对象类型和内容交给service判断，这样能返回具体的字段名；target_id不做校验，0也是合法的id
type PublishCommentRequest struct {
	TargetType string  `json:"target_type"`
	TargetID   uint64  `json:"target_id"`
	Content    string  `json:"content"`
	ParentID   *uint64 `json:"parent_id"`
}

// 发表评论：1、解析Body 2、从context取userID（jwt） 3、service创建评论 4、dto转换后返回
func (h *commentHandler) PublishComment(c *gin.Context) {
	var req PublishCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendBindError(c, &req, err)
		return
	}
	userID := middleware.ActorID(c)

	// 正式进入业务前，将logger格式整理好
	logCtx := logger.Log.WithField("user_id", userID).
		WithField("target_type", req.TargetType).
		WithField("target_id", req.TargetID)
	logCtx.Info("开始发表评论")
	comment, err := h.CommentService.Publish(userID, service.PublishCommentInput{
		TargetType: model.TargetType(req.TargetType),
		TargetID:   req.TargetID,
		Content:    req.Content,
		ParentID:   req.ParentID,
	})
	if err != nil {
		sendServiceError(c, logCtx, err, "发表评论")
		return
	}
	logCtx.WithField("comment_id", comment.ID).Info("评论发表成功")
	c.JSON(http.StatusCreated, gin.H{ // 201
		"message": "评论成功",
		"data":    dto.ToCommentResponse(comment),
	})
}

// 删除评论：连同它下面所有的回复一起删除
func (h *commentHandler) DeleteComment(c *gin.Context) {
	commentID, ok := parseIDParam(c, "comment_id", "无效的评论ID")
	if !ok {
		return
	}
	userID := middleware.ActorID(c)
	logCtx := logger.Log.WithField("user_id", userID).WithField("comment_id", commentID)
	logCtx.Info("开始删除评论")

	deleted, err := h.CommentService.Delete(userID, commentID)
	if err != nil {
		sendServiceError(c, logCtx, err, "删除评论")
		return
	}
	logCtx.WithField("deleted", deleted).Info("评论删除成功")
	c.JSON(http.StatusOK, gin.H{
		"message": "删除成功",
		"data":    gin.H{"deleted": deleted},
	})
}

// 点赞评论：匿名也可以点，不去重
func (h *commentHandler) LikeComment(c *gin.Context) {
	commentID, ok := parseIDParam(c, "comment_id", "无效的评论ID")
	if !ok {
		return
	}
	logCtx := logger.Log.WithField("user_id", middleware.ActorID(c)).WithField("comment_id", commentID)
	count, err := h.CommentService.Like(commentID)
	if err != nil {
		sendServiceError(c, logCtx, err, "点赞评论")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "点赞成功",
		"data":    gin.H{"like_count": count},
	})
}

func (h *commentHandler) ReportComment(c *gin.Context) {
	commentID, ok := parseIDParam(c, "comment_id", "无效的评论ID")
	if !ok {
		return
	}
	logCtx := logger.Log.WithField("user_id", middleware.ActorID(c)).WithField("comment_id", commentID)
	if err := h.CommentService.Report(commentID); err != nil {
		sendServiceError(c, logCtx, err, "举报评论")
		return
	}
	logCtx.Info("评论已被举报")
	c.JSON(http.StatusOK, gin.H{"message": "举报成功"})
}

// 获取某个对象下的一级评论：sort_by=time|hot，page/page_size可选，不传page_size就返回全部
func (h *commentHandler) GetCommentsByTarget(c *gin.Context) {
	targetType := model.TargetType(c.Param("target_type"))
	targetID, ok := parseIDParam(c, "target_id", "无效的对象ID")
	if !ok {
		return
	}
	// 在URL的查询参数里找page这个键，没找到就返回默认值
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "0"))
	sortBy := c.DefaultQuery("sort_by", service.SortByTime)

	logCtx := logger.Log.WithField("target_type", targetType).WithField("target_id", targetID)
	comments, err := h.CommentService.ListByTarget(targetType, targetID, sortBy, page, pageSize)
	if err != nil {
		sendServiceError(c, logCtx, err, "获取评论列表")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "获取评论列表成功",
		"data":    dto.ToCommentResponses(comments),
	})
}

func (h *commentHandler) GetCommentDetail(c *gin.Context) {
	commentID, ok := parseIDParam(c, "comment_id", "无效的评论ID")
	if !ok {
		return
	}
	logCtx := logger.Log.WithField("comment_id", commentID)
	root, replies, err := h.CommentService.Detail(commentID)
	if err != nil {
		sendServiceError(c, logCtx, err, "获取评论详情")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "获取评论详情成功",
		"data":    dto.ToCommentDetailResponse(root, replies),
	})
}

func (h *commentHandler) GetCommentStats(c *gin.Context) {
	targetType := model.TargetType(c.Param("target_type"))
	targetID, ok := parseIDParam(c, "target_id", "无效的对象ID")
	if !ok {
		return
	}
	logCtx := logger.Log.WithField("target_type", targetType).WithField("target_id", targetID)
	stats, err := h.CommentService.Stats(targetType, targetID)
	if err != nil {
		sendServiceError(c, logCtx, err, "获取评论统计")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "获取评论统计成功",
		"data":    dto.ToCommentStatsResponse(stats.Count, stats.Hottest),
	})
}

func (h *commentHandler) GetMyComments(c *gin.Context) {
	userID := middleware.ActorID(c)
	logCtx := logger.Log.WithField("user_id", userID)
	comments, err := h.CommentService.MyComments(userID)
	if err != nil {
		sendServiceError(c, logCtx, err, "获取我的评论")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "获取我的评论成功",
		"data":    dto.ToCommentResponses(comments),
	})
}
