package model

import (
	"encoding/gob"
	"io"
	"os"

	"github.com/YuminosukeSato/randomferns/pkg/errors"
)

// SaveModel はモデルをファイルに保存する
//
// 使用例:
//
//	err := model.SaveModel(snapshot, "ferns.gob")
func SaveModel(m interface{}, filename string) (err error) {
	file, err := os.Create(filename)
	if err != nil {
		return errors.Wrap(err, "failed to create file")
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = errors.Wrap(cerr, "failed to close file")
		}
	}()

	return SaveModelToWriter(m, file)
}

// LoadModel はファイルからモデルを読み込む
func LoadModel(m interface{}, filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return errors.Wrap(err, "failed to open file")
	}
	defer file.Close()

	return LoadModelFromReader(m, file)
}

// SaveModelToWriter はモデルをio.Writerにgob形式で保存する
func SaveModelToWriter(m interface{}, w io.Writer) error {
	if err := gob.NewEncoder(w).Encode(m); err != nil {
		return errors.Wrap(err, "failed to encode model")
	}
	return nil
}

// LoadModelFromReader はio.Readerからgob形式のモデルを読み込む
//
// パラメータ:
//   - m: 読み込み先のモデル（ポインタ）
//   - r: 読み込み元のReader
func LoadModelFromReader(m interface{}, r io.Reader) error {
	if err := gob.NewDecoder(r).Decode(m); err != nil {
		return errors.Wrap(err, "failed to decode model")
	}
	return nil
}
