package utils

import (
	"errors"
	"io/ioutil"
	"log"

	"github.com/Luismorlan/pow_ledger/model"
	"gopkg.in/yaml.v2"
)

// MarshalChain encodes the chain as YAML. Field order follows model.Block.
// Hashes are never derived from this form.
func MarshalChain(chain *model.Chain) ([]byte, error) {
	return yaml.Marshal(chain)
}

func UnmarshalChain(data []byte) (*model.Chain, error) {
	chain := model.Chain{}
	if err := yaml.Unmarshal(data, &chain); err != nil {
		return nil, err
	}
	if chain.Len() == 0 {
		return nil, ErrEmptyChain
	}
	if err := CheckDifficulty(chain.Difficulty); err != nil {
		return nil, err
	}
	return &chain, nil
}

func SaveChainToFile(chain *model.Chain, fPath string) error {
	if fPath == "" {
		return errors.New("file path is missing")
	}
	data, err := MarshalChain(chain)
	if err != nil {
		return err
	}
	if err := ioutil.WriteFile(fPath, data, 0644); err != nil {
		log.Println("failed to save chain in", fPath, err)
		return err
	}
	log.Println("Saved chain in file", fPath)
	return nil
}

func ReadChainFromFile(fPath string) (*model.Chain, error) {
	fileContent, err := ioutil.ReadFile(fPath)
	if err != nil {
		return nil, err
	}
	return UnmarshalChain(fileContent)
}
