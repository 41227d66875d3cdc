package domain

// AttemptResult は1回の生成試行の結果です。Err が空なら成功です。
type AttemptResult struct {
	Index    int    `yaml:"index"`
	Path     string `yaml:"path,omitempty"`
	Width    int    `yaml:"width,omitempty"`
	Height   int    `yaml:"height,omitempty"`
	MimeType string `yaml:"mime_type,omitempty"`
	Err      string `yaml:"error,omitempty"`
}

// OK は試行が成功したかどうかを返します。
func (r AttemptResult) OK() bool {
	return r.Err == ""
}

// GenerationBatch は同じページに対する複数の生成試行をまとめたものです。
type GenerationBatch struct {
	ID       string          `yaml:"id"`
	Attempts []AttemptResult `yaml:"attempts"`
}

// Successes は成功した試行の保存先パスを試行順に返します。
func (b *GenerationBatch) Successes() []string {
	var paths []string
	for _, a := range b.Attempts {
		if a.OK() {
			paths = append(paths, a.Path)
		}
	}
	return paths
}

// Failures は失敗した試行のエラーメッセージを試行順に返します。
func (b *GenerationBatch) Failures() []string {
	var msgs []string
	for _, a := range b.Attempts {
		if !a.OK() {
			msgs = append(msgs, a.Err)
		}
	}
	return msgs
}

// Succeeded は1回でも成功していれば true を返します。
func (b *GenerationBatch) Succeeded() bool {
	return len(b.Successes()) > 0
}
