package model

// TargetType 评论和收藏可以指向的对象类型
type TargetType string

const (
	TargetSong     TargetType = "song"
	TargetAlbum    TargetType = "album"
	TargetSonglist TargetType = "songlist"
)

// Valid 只接受三种枚举值
func (t TargetType) Valid() bool {
	switch t {
	case TargetSong, TargetAlbum, TargetSonglist:
		return true
	}
	return false
}
