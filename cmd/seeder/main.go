package main

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"ShengHang/internal/config"
	"ShengHang/internal/model"

	"github.com/go-faker/faker/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	userCount     = 100
	singerCount   = 20
	albumsPerSing = 3
	songsPerAlbum = 8
	songlistCount = 60
	commentCount  = 1000
	favoriteCount = 2000
)

func main() {
	fmt.Println("🚀 开始填充测试数据...")

	// --- 1. 连接数据库 ---
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ 配置加载失败: %v", err)
	}
	db, err := gorm.Open(mysql.Open(cfg.MySQLDSN), &gorm.Config{
		TranslateError:                           true,
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		log.Fatalf("❌ 无法连接到数据库: %v", err)
	}
	fmt.Println("✅ 数据库连接成功!")

	// --- 2. 清理旧数据 ---
	// 注意：这将删除所有数据！
	fmt.Println("🧹 正在清理旧数据...")
	if err := db.Migrator().DropTable(
		&model.PlayHistory{}, &model.Favorite{}, &model.Comment{}, &model.SonglistSong{}, &model.Songlist{},
		&model.SingerFollow{}, &model.UserFollow{}, &model.Song{}, &model.Album{}, &model.Singer{}, &model.User{},
	); err != nil {
		log.Fatalf("❌ 删除旧表失败: %v", err)
	}
	if err := model.AutoMigrate(db); err != nil {
		log.Fatalf("❌ 数据库迁移失败: %v", err)
	}
	fmt.Println("✅ 数据库迁移成功!")

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	// --- 3. 创建用户，第一个是管理员 ---
	fmt.Println("👥 正在创建用户...")
	// 所有用户的默认密码都是 "password"
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("❌ 密码加密失败: %v", err)
	}
	userIDs := make([]uint64, 0, userCount)
	for i := 0; i < userCount; i++ {
		user := model.User{
			Username: fmt.Sprintf("%s_%d", faker.Username(), i),
			Password: string(hashedPassword),
			Email:    faker.Email(),
			Region:   pick(rng, []string{"北京", "上海", "广州", "成都", "杭州"}),
			Gender:   pick(rng, []string{"male", "female", ""}),
			IsAdmin:  i == 0,
		}
		if i == 0 {
			user.Username = "admin"
		}
		mustCreate(db, &user)
		userIDs = append(userIDs, user.ID)
	}
	fmt.Printf("✅ 成功创建 %d 个用户! 管理员账号: admin / password\n", userCount)

	// --- 4. 创建歌手、专辑、歌曲 ---
	fmt.Println("🎤 正在创建曲库...")
	var songIDs, albumIDs []uint64
	for i := 0; i < singerCount; i++ {
		singer := model.Singer{
			Name:         faker.Name(),
			Gender:       pick(rng, []string{"male", "female", "group"}),
			Region:       pick(rng, []string{"内地", "港台", "欧美", "日韩"}),
			Introduction: faker.Paragraph(),
		}
		mustCreate(db, &singer)
		for j := 0; j < albumsPerSing; j++ {
			released := time.Now().AddDate(-rng.Intn(20), -rng.Intn(12), 0)
			album := model.Album{
				Title:       faker.Word(),
				SingerID:    singer.ID,
				ReleaseDate: &released,
				CoverURL:    "https://test.com/album.jpg",
			}
			mustCreate(db, &album)
			albumIDs = append(albumIDs, album.ID)
			for k := 0; k < songsPerAlbum; k++ {
				albumID := album.ID
				song := model.Song{
					Title:    faker.Sentence(),
					SingerID: singer.ID,
					AlbumID:  &albumID,
					Duration: uint32(120 + rng.Intn(240)),
					FileURL:  "https://test.com/song.mp3",
				}
				mustCreate(db, &song)
				songIDs = append(songIDs, song.ID)
			}
		}
	}
	fmt.Printf("✅ 成功创建 %d 首歌曲!\n", len(songIDs))

	// --- 5. 创建歌单 ---
	fmt.Println("📀 正在创建歌单...")
	var songlistIDs []uint64
	for i := 0; i < songlistCount; i++ {
		songlist := model.Songlist{
			UserID:   userIDs[rng.Intn(len(userIDs))],
			Title:    faker.Sentence(),
			CoverURL: model.DefaultSonglistCover,
			IsPublic: rng.Intn(5) != 0,
		}
		mustCreate(db, &songlist)
		songlistIDs = append(songlistIDs, songlist.ID)
		for k := 0; k < 5+rng.Intn(15); k++ {
			// 使用GORM的 OnConflict 来避免因为重复添加而报错
			db.Clauses(clause.OnConflict{DoNothing: true}).Create(&model.SonglistSong{
				SonglistID: songlist.ID,
				SongID:     songIDs[rng.Intn(len(songIDs))],
				AddedAt:    time.Now().Add(-time.Duration(rng.Intn(1000)) * time.Hour),
			})
		}
	}
	fmt.Printf("✅ 成功创建 %d 个歌单!\n", songlistCount)

	// --- 6. 创建评论，约三成是回复 ---
	fmt.Println("💬 正在创建评论...")
	var commentIDs []uint64
	for i := 0; i < commentCount; i++ {
		targetType, targetID := randomTarget(rng, songIDs, albumIDs, songlistIDs)
		comment := model.Comment{
			UserID:     userIDs[rng.Intn(len(userIDs))],
			TargetType: targetType,
			TargetID:   targetID,
			Content:    faker.Sentence(),
			Status:     model.CommentNormal,
			LikeCount:  uint64(rng.Intn(50)),
			CreatedAt:  time.Now().Add(-time.Duration(rng.Intn(10000)) * time.Minute),
		}
		if len(commentIDs) > 0 && rng.Intn(10) < 3 {
			var parent model.Comment
			if err := db.First(&parent, commentIDs[rng.Intn(len(commentIDs))]).Error; err == nil {
				parentID := parent.ID
				comment.TargetType = parent.TargetType
				comment.TargetID = parent.TargetID
				comment.ParentID = &parentID
			}
		}
		mustCreate(db, &comment)
		commentIDs = append(commentIDs, comment.ID)
	}
	fmt.Printf("✅ 成功创建 %d 条评论!\n", commentCount)

	// --- 7. 创建随机收藏 ---
	fmt.Println("⭐ 正在创建随机收藏...")
	for i := 0; i < favoriteCount; i++ {
		targetType, targetID := randomTarget(rng, songIDs, albumIDs, songlistIDs)
		db.Clauses(clause.OnConflict{DoNothing: true}).Create(&model.Favorite{
			UserID:     userIDs[rng.Intn(len(userIDs))],
			TargetType: targetType,
			TargetID:   targetID,
		})
	}
	fmt.Printf("✅ 成功创建(或尝试创建) %d 个随机收藏!\n", favoriteCount)

	fmt.Println("🎉🎉🎉 所有测试数据填充完毕! 🎉🎉🎉")
}

func mustCreate(db *gorm.DB, value interface{}) {
	if err := db.Create(value).Error; err != nil {
		log.Fatalf("❌ 写入数据失败: %v", err)
	}
}

func pick(rng *rand.Rand, options []string) string {
	return options[rng.Intn(len(options))]
}

func randomTarget(rng *rand.Rand, songIDs, albumIDs, songlistIDs []uint64) (model.TargetType, uint64) {
	switch rng.Intn(3) {
	case 0:
		return model.TargetAlbum, albumIDs[rng.Intn(len(albumIDs))]
	case 1:
		return model.TargetSonglist, songlistIDs[rng.Intn(len(songlistIDs))]
	default:
		return model.TargetSong, songIDs[rng.Intn(len(songIDs))]
	}
}
