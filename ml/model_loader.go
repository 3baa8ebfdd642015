package ml

import (
	"errors"
)

func LoadModel(modelType, path string) (Model, error) {
	switch modelType {
	case "knn":
		model := &KNN{}
		if err := model.Load(path); err != nil {
			return nil, err
		}
		return model, nil
	default:
		return nil, errors.New("unsupported model type")
	}
}
