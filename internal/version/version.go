package version

const (
	// Botのバージョン番号
	Version = "0.4.1"
)

// PatchNotes パッチノートの内容
var PatchNotes = []string{
	"スティッキーモードで連投した写真を1回のまとめ処理で返すようにしました。",
	"住所が長い場合のフォント縮小と2行折り返しを改善しました。",
	"地図タイルの取得に失敗した場合でも合成を続行するようにしました。",
}
