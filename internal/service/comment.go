package service

import (
	"strings"
	"time"

	"ShengHang/internal/apperr"
	"ShengHang/internal/data"
	"ShengHang/internal/model"
	"ShengHang/internal/repository"
	"ShengHang/pkg/logger"
)

const (
	SortByTime = "time"
	SortByHot  = "hot"
)

type PublishCommentInput struct {
	TargetType model.TargetType
	TargetID   uint64
	Content    string
	// 不校验父评论是否存在，回复已删除的评论也允许
	ParentID *uint64
}

type CommentStats struct {
	Count   int64
	Hottest *model.Comment // 没有评论时为nil
}

type CommentService interface {
	Publish(actorID uint64, in PublishCommentInput) (*model.Comment, error)
	// 删除评论以及它下面的整棵回复树，返回删除的条数
	Delete(actorID, commentID uint64) (int64, error)
	// 点赞，返回点赞后的数量
	Like(commentID uint64) (uint64, error)
	Report(commentID uint64) error

	ListByTarget(targetType model.TargetType, targetID uint64, sortBy string, page, pageSize int) ([]model.Comment, error)
	Detail(commentID uint64) (*model.Comment, []model.Comment, error)
	Stats(targetType model.TargetType, targetID uint64) (*CommentStats, error)
	MyComments(actorID uint64) ([]model.Comment, error)
}

type commentService struct {
	commentRepo repository.CommentRepository
	uow         data.UnitOfWork
	now         func() time.Time
}

func NewCommentService(commentRepo repository.CommentRepository, uow data.UnitOfWork) CommentService {
	return &commentService{
		commentRepo: commentRepo,
		uow:         uow,
		now:         time.Now,
	}
}

// 发表评论：1、校验登录态、对象类型、内容 2、插入一条normal、0赞的评论 3、带着作者再查出来
// 不校验target是否存在
func (s *commentService) Publish(actorID uint64, in PublishCommentInput) (*model.Comment, error) {
	if err := requireActor(actorID); err != nil {
		return nil, err
	}
	if err := requireTarget(in.TargetType); err != nil {
		return nil, err
	}
	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, apperr.NewInvalidArgument("content", "评论内容不能为空")
	}
	newComment := &model.Comment{
		UserID:     actorID,
		TargetType: in.TargetType,
		TargetID:   in.TargetID,
		Content:    content,
		ParentID:   in.ParentID,
		Status:     model.CommentNormal,
		LikeCount:  0,
		CreatedAt:  s.now(),
	}
	if err := s.commentRepo.Create(newComment); err != nil {
		return nil, translate(err, "评论不存在")
	}
	created, err := s.commentRepo.FindByID(newComment.ID)
	if err != nil {
		return nil, translate(err, "评论不存在")
	}
	return created, nil
}

// 递归删除：1、锁住目标评论 2、权限判断 3、按层找出整棵子树并全部锁住 4、从最深的一层往上删
// 整个过程在一个事务里，要么整棵树都删掉，要么一条都不删
// 子树里别人的回复也会被一起删掉
func (s *commentService) Delete(actorID, commentID uint64) (int64, error) {
	if err := requireActor(actorID); err != nil {
		return 0, err
	}
	var deleted int64
	err := s.uow.Execute(func(repos *data.TransactionalRepositories) error {
		if _, err := repos.CommentRepo.FindByIDForUpdate(commentID); err != nil {
			return translate(err, "评论不存在")
		}
		allowed, err := repos.Authority().CanDeleteComment(actorID, commentID)
		if err != nil {
			return apperr.NewStorageFailure(err)
		}
		if !allowed {
			return apperr.NewForbidden("只有评论作者或歌单主人可以删除该评论")
		}
		levels, err := collectSubtree(repos.CommentRepo, []uint64{commentID})
		if err != nil {
			return apperr.NewStorageFailure(err)
		}
		n, err := deleteLevels(repos.CommentRepo, levels)
		if err != nil {
			return apperr.NewStorageFailure(err)
		}
		deleted = n
		return nil
	})
	if err != nil {
		return 0, err
	}
	logger.Log.WithField("comment_id", commentID).WithField("deleted", deleted).Debug("评论子树已删除")
	return deleted, nil
}

// collectSubtree 从roots开始一层一层往下找子评论，levels[0]就是roots
// visited防止脏数据里出现环导致死循环
func collectSubtree(repo repository.CommentRepository, roots []uint64) ([][]uint64, error) {
	visited := make(map[uint64]struct{}, len(roots))
	level := make([]uint64, 0, len(roots))
	for _, id := range roots {
		if _, ok := visited[id]; ok {
			continue
		}
		visited[id] = struct{}{}
		level = append(level, id)
	}
	var levels [][]uint64
	for len(level) > 0 {
		levels = append(levels, level)
		children, err := repo.ChildIDsForUpdate(level)
		if err != nil {
			return nil, err
		}
		next := make([]uint64, 0, len(children))
		for _, id := range children {
			if _, ok := visited[id]; ok {
				continue
			}
			visited[id] = struct{}{}
			next = append(next, id)
		}
		level = next
	}
	return levels, nil
}

// 先删叶子再删父亲，任何时刻都不会出现父评论没了、子评论还在的中间状态
func deleteLevels(repo repository.CommentRepository, levels [][]uint64) (int64, error) {
	var total int64
	for i := len(levels) - 1; i >= 0; i-- {
		n, err := repo.DeleteByIDs(levels[i])
		if err != nil {
			return 0, err
		}
		total += n
	}
	return total, nil
}

// 点赞：不做任何去重，同一个人点多少次就加多少次
func (s *commentService) Like(commentID uint64) (uint64, error) {
	var count uint64
	err := s.uow.Execute(func(repos *data.TransactionalRepositories) error {
		rows, err := repos.CommentRepo.IncrementLikeCount(commentID)
		if err != nil {
			return apperr.NewStorageFailure(err)
		}
		if rows == 0 {
			return apperr.NewNotFound("评论不存在")
		}
		count, err = repos.CommentRepo.GetLikeCount(commentID)
		if err != nil {
			return apperr.NewStorageFailure(err)
		}
		return nil
	})
	return count, err
}

// 举报：无论当前什么状态，一律置为reported，重复举报没有额外效果
// 先查存在性：MySQL对值没变的UPDATE返回的影响行数是0，不能拿它判断存在
func (s *commentService) Report(commentID uint64) error {
	return s.uow.Execute(func(repos *data.TransactionalRepositories) error {
		if _, err := repos.CommentRepo.FindByIDForUpdate(commentID); err != nil {
			return translate(err, "评论不存在")
		}
		if _, err := repos.CommentRepo.UpdateStatus(commentID, model.CommentReported); err != nil {
			return apperr.NewStorageFailure(err)
		}
		return nil
	})
}

// 某个对象下的一级评论，只包含normal状态。sortBy为hot时按点赞数，其余一律按时间
// pageSize<=0 时不分页
func (s *commentService) ListByTarget(targetType model.TargetType, targetID uint64, sortBy string, page, pageSize int) ([]model.Comment, error) {
	if err := requireTarget(targetType); err != nil {
		return nil, err
	}
	if page < 1 {
		page = 1
	}
	offset := 0
	if pageSize > 0 {
		// offset: “跳过” 多少条记录，再开始取数据
		offset = (page - 1) * pageSize
	}
	comments, err := s.commentRepo.ListTopLevelByTarget(targetType, targetID, sortBy == SortByHot, offset, pageSize)
	if err != nil {
		return nil, translate(err, "评论不存在")
	}
	return comments, nil
}

// 评论详情：评论本身不看状态，回复只要normal的、只取一层
func (s *commentService) Detail(commentID uint64) (*model.Comment, []model.Comment, error) {
	root, err := s.commentRepo.FindByID(commentID)
	if err != nil {
		return nil, nil, translate(err, "评论不存在")
	}
	replies, err := s.commentRepo.ListReplies(commentID)
	if err != nil {
		return nil, nil, translate(err, "评论不存在")
	}
	return root, replies, nil
}

func (s *commentService) Stats(targetType model.TargetType, targetID uint64) (*CommentStats, error) {
	if err := requireTarget(targetType); err != nil {
		return nil, err
	}
	count, err := s.commentRepo.CountNormalByTarget(targetType, targetID)
	if err != nil {
		return nil, apperr.NewStorageFailure(err)
	}
	stats := &CommentStats{Count: count}
	if count == 0 {
		return stats, nil
	}
	hottest, err := s.commentRepo.FindHottestByTarget(targetType, targetID)
	if err != nil && !repository.IsNotFound(err) {
		return nil, apperr.NewStorageFailure(err)
	}
	stats.Hottest = hottest
	return stats, nil
}

// 我发表过的所有评论，不区分状态
func (s *commentService) MyComments(actorID uint64) ([]model.Comment, error) {
	if err := requireActor(actorID); err != nil {
		return nil, err
	}
	comments, err := s.commentRepo.ListByUser(actorID)
	if err != nil {
		return nil, apperr.NewStorageFailure(err)
	}
	return comments, nil
}
