/*
	VoxelGrid, chunked 2D voxel world server
	Copyright (C) 2022 Maxim Zhuchkov

	This program is free software: you can redistribute it and/or modify
	it under the terms of the GNU Affero General Public License as published
	by the Free Software Foundation, either version 3 of the License, or
	(at your option) any later version.

	This program is distributed in the hope that it will be useful,
	but WITHOUT ANY WARRANTY; without even the implied warranty of
	MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
	GNU Affero General Public License for more details.

	You should have received a copy of the GNU Affero General Public License
	along with this program.  If not, see <https://www.gnu.org/licenses/>.

	Contact me via mail: q3.max.2011@yandex.ru or Discord: MaX#6717
*/

package main

import (
	"context"
	"errors"
	"log"
	"sync"

	"github.com/maxsupermanhd/VoxelGrid/chunkStorage"
	"github.com/maxsupermanhd/VoxelGrid/chunkStorage/filesystemChunkStorage"
	"github.com/maxsupermanhd/VoxelGrid/chunkStorage/postgresChunkStorage"
	"github.com/maxsupermanhd/lac"
)

var (
	errStorageTypeNotImplemented = errors.New("storage type not implemented")
	errStorageNotFound           = errors.New("storage not found")
	errStorageOffline            = errors.New("storage is not initialized")
	storages                     map[string]chunkStorage.Storage
	storagesLock                 sync.Mutex
)

func initStorages() error {
	log.Println("Initializing storages...")
	storagesLock.Lock()
	defer storagesLock.Unlock()
	err := cfg.GetToStruct(&storages, "storages")
	if err != nil && !errors.Is(err, lac.ErrNoKey) {
		return err
	}
	if len(storages) == 0 {
		log.Println("No storages to initialize")
		storages = map[string]chunkStorage.Storage{}
		return nil
	}
	for k, v := range storages {
		v.Name = k
		d, err := initStorage(v.Type, v.Address)
		if err != nil {
			log.Printf("Failed to initialize storage %s: %s", k, err.Error())
			storages[k] = v
			continue
		}
		ver, err := d.GetStatus()
		if err != nil {
			log.Println("Error getting storage status: " + err.Error())
		}
		v.Driver = d
		storages[k] = v
		log.Printf("Storage %s initialized: %s", k, ver)
	}
	return nil
}

func initStorage(storageStype, address string) (driver chunkStorage.ChunkStorage, err error) {
	switch storageStype {
	case "postgres":
		driver, err = postgresChunkStorage.NewPostgresChunkStorage(context.Background(), address)
		if err != nil {
			return nil, err
		}
		return driver, nil
	case "filesystem":
		driver, err = filesystemChunkStorage.NewFilesystemChunkStorage(address)
		if err != nil {
			return nil, err
		}
		return driver, nil
	default:
		return nil, errStorageTypeNotImplemented
	}
}

// worldStorage is the storage named by world.storage, nil when not configured.
func worldStorage() (chunkStorage.ChunkStorage, error) {
	name := cfg.GetDSString("", "world", "storage")
	if name == "" {
		return nil, nil
	}
	storagesLock.Lock()
	defer storagesLock.Unlock()
	s, ok := storages[name]
	if !ok {
		return nil, errStorageNotFound
	}
	if s.Driver == nil {
		return nil, errStorageOffline
	}
	return s.Driver, nil
}

func closeStorages() {
	storagesLock.Lock()
	defer storagesLock.Unlock()
	if err := chunkStorage.CloseStorages(storages); err != nil {
		log.Println("Failed to close storages: ", err)
	}
}
