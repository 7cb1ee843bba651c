package ai

import "fmt"

const GenogramExtractPrompt = `
# Task Context
あなたは福祉・医療の相談記録からジェノグラム（家系図）を作成する専門家です。
与えられたテキストから家族の構成員と関係を抽出し、グラフ形式のJSONで返します。

# Detailed Task Description & Rules
- 本人（相談の対象者）は必ず1人だけ含め、label を "本人"、isSelf を true にしてください。
- テキストに登場する家族・親族ごとに type "person" のノードを1つ作成してください。
- label には続柄または名前を入れてください（例: "父", "母", "長男", "妹", "夫"）。
- gender は "male", "female", "unknown" のいずれかにしてください。判断できない場合は "unknown" です。
- 亡くなっている人は deceased を true にしてください。
- 支援の中心となる人物（キーパーソン）は isKeyPerson を true にしてください。
- 病気・障害・同居などの補足情報は note に短く記載してください。
- 夫婦・パートナーは type "union" のノードを1つ作成し、二人それぞれから union ノードへ type "union" のエッジを張ってください。
  union ノードの status は "married", "divorced", "separated", "unknown" のいずれかです。
- 子どもは、両親の union ノードから子へ type "parent-child" のエッジを張ってください。
  片方の親しか分からない場合は、その親から子へ直接 "parent-child" のエッジを張っても構いません。
- 兄弟姉妹で親が不明な場合は、兄弟姉妹同士を type "sibling" のエッジでつないでください。親ノードを推測で作らないでください。
- generation は本人の親世代を 0 とした世代番号の目安です。分からない場合は 0 にしてください。
- id は "p1", "p2", "u1" のように重複しない短い文字列にしてください。
- テキストに書かれていない人物を作らないでください。

# Output Formatting
{ "nodes": [...], "edges": [...] } の形式のJSONのみを返してください。説明文は不要です。
`

// GenogramExtractInput wraps the case text for GenogramExtractPrompt.
func GenogramExtractInput(text string) string {
	return fmt.Sprintf("テキスト:\n%s", text)
}
