package commands

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"

	cryptoDomain "github.com/allisson/jobtracker/internal/crypto/domain"
	cryptoService "github.com/allisson/jobtracker/internal/crypto/service"
)

type encrypter interface {
	Encrypt(ctx context.Context, plaintext []byte) ([]byte, error)
}

// RunGenerateEncryptionKey prints a fresh API_KEY_ENC_SECRET.
//
// Without KMS flags the output is the base64 key itself. With --kms-provider and
// --kms-key-uri the key is wrapped by the KMS and the ciphertext is printed instead,
// together with the KMS settings the server needs to unwrap it.
//
// Never use the localsecrets provider in production.
func RunGenerateEncryptionKey(
	ctx context.Context,
	kmsService cryptoService.KMSService,
	logger *slog.Logger,
	writer io.Writer,
	kmsProvider string,
	kmsKeyURI string,
) error {
	if (kmsProvider == "") != (kmsKeyURI == "") {
		return fmt.Errorf("--kms-provider and --kms-key-uri must be used together")
	}

	key, err := cryptoDomain.GenerateKey()
	if err != nil {
		return err
	}
	defer cryptoDomain.Zero(key)

	if kmsProvider == "" {
		_, _ = fmt.Fprintln(writer, "# Copy this variable to your .env file or secrets manager")
		_, _ = fmt.Fprintf(writer, "API_KEY_ENC_SECRET=\"%s\"\n", base64.StdEncoding.EncodeToString(key))
		logger.Info("encryption key generated")
		return nil
	}

	keeper, err := kmsService.OpenKeeper(ctx, kmsKeyURI)
	if err != nil {
		return fmt.Errorf("failed to open KMS keeper: %w", err)
	}
	defer func() {
		if closeErr := keeper.Close(); closeErr != nil {
			logger.Warn("failed to close KMS keeper", slog.Any("error", closeErr))
		}
	}()

	wrapper, ok := keeper.(encrypter)
	if !ok {
		return fmt.Errorf("KMS keeper does not support encryption")
	}

	ciphertext, err := wrapper.Encrypt(ctx, key)
	if err != nil {
		return fmt.Errorf("failed to encrypt key with KMS: %w", err)
	}

	_, _ = fmt.Fprintln(writer, "# Copy these variables to your .env file or secrets manager")
	_, _ = fmt.Fprintf(writer, "KMS_PROVIDER=\"%s\"\n", kmsProvider)
	_, _ = fmt.Fprintf(writer, "KMS_KEY_URI=\"%s\"\n", kmsKeyURI)
	_, _ = fmt.Fprintf(writer, "API_KEY_ENC_SECRET=\"%s\"\n", base64.StdEncoding.EncodeToString(ciphertext))

	logger.Info("encryption key generated and wrapped", slog.String("kms_provider", kmsProvider))
	return nil
}
