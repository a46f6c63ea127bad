package config

import (
	"context"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

var (
	once    sync.Once
	ssmCfg  *Config
	loadErr error
)

// LoadFromSSM reads the whole yaml config out of one SSM parameter. Deployed
// environments keep secrets (DSN, signing secret, slack token) there instead
// of on disk. Cached for the process lifetime.
func LoadFromSSM(ctx context.Context, paramName string) (*Config, error) {
	once.Do(func() {
		awscfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			loadErr = fmt.Errorf("load aws config: %w", err)
			return
		}

		client := ssm.NewFromConfig(awscfg)

		out, err := client.GetParameter(ctx, &ssm.GetParameterInput{
			Name:           aws.String(paramName),
			WithDecryption: aws.Bool(true),
		})
		if err != nil {
			loadErr = fmt.Errorf("get parameter %s: %w", paramName, err)
			return
		}

		cfg := defaults()
		if err := yaml.Unmarshal([]byte(*out.Parameter.Value), cfg); err != nil {
			loadErr = fmt.Errorf("unmarshal yaml: %w", err)
			return
		}
		ssmCfg = cfg
	})

	return ssmCfg, loadErr
}
