package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"golang.org/x/crypto/scrypt"

	"github.com/AlexZinkM/crypto-wallet/internal/model"
)

// DecryptBackup reads and decrypts a .cwt backup file
// password must be []byte for security (caller should zero it after use)
func DecryptBackup(filePath string, password []byte) (*model.BackupFile, *model.BackupData, error) {
	fileData, err := readBackupFile(filePath)
	if err != nil {
		return nil, nil, err
	}

	// Deserialize file structure
	var backupFile model.BackupFile
	if err := json.Unmarshal(fileData, &backupFile); err != nil {
		return nil, nil, fmt.Errorf("failed to unmarshal backup file: %w", err)
	}

	// Decode salt and nonce
	salt, err := base64.StdEncoding.DecodeString(backupFile.Salt)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decode salt: %w", err)
	}

	nonce, err := base64.StdEncoding.DecodeString(backupFile.Nonce)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decode nonce: %w", err)
	}

	ciphertext, err := base64.StdEncoding.DecodeString(backupFile.CipherText)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decode ciphertext: %w", err)
	}

	// Derive key from password
	key, err := scrypt.Key(password, salt, scryptN, scryptR, scryptP, scryptKeyLen)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to derive key: %w", err)
	}

	// Create AES cipher
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	// Create GCM
	aesGCM, err := cipher.NewGCM(block)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	// Decrypt
	plaintext, err := aesGCM.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, nil, errors.New("invalid password")
	}
	defer clear(plaintext) // wipe decrypted bytes from memory

	// Deserialize backup data
	var data model.BackupData
	if err := json.Unmarshal(plaintext, &data); err != nil {
		return nil, nil, fmt.Errorf("failed to unmarshal backup data: %w", err)
	}

	return &backupFile, &data, nil
}

// ReadBackupAddress reads only the address from a .cwt file (without decryption)
func ReadBackupAddress(filePath string) (string, error) {
	fileData, err := readBackupFile(filePath)
	if err != nil {
		return "", err
	}

	var backupFile model.BackupFile
	if err := json.Unmarshal(fileData, &backupFile); err != nil {
		return "", fmt.Errorf("failed to unmarshal backup file: %w", err)
	}

	return backupFile.Address, nil
}

func readBackupFile(filePath string) ([]byte, error) {
	fileInfo, err := os.Stat(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("file does not exist")
		}
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	if fileInfo.Size() == 0 {
		return nil, errors.New("file is empty")
	}

	fileData, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	// Skip UTF-8 BOM if present
	if len(fileData) >= 3 && fileData[0] == 0xEF && fileData[1] == 0xBB && fileData[2] == 0xBF {
		fileData = fileData[3:]
	}

	return fileData, nil
}
